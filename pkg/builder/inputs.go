package builder

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-nestedform/pkg/model"
)

// InputOption adjusts a single rendered control.
type InputOption func(*inputConfig)

type inputConfig struct {
	value       string
	hasValue    bool
	placeholder string
	cssClass    string
	inputType   string
}

// WithValue sets the control value explicitly instead of reading it from the
// bound record.
func WithValue(value string) InputOption {
	return func(cfg *inputConfig) {
		cfg.value = value
		cfg.hasValue = true
	}
}

// WithPlaceholder sets the control placeholder.
func WithPlaceholder(placeholder string) InputOption {
	return func(cfg *inputConfig) {
		cfg.placeholder = placeholder
	}
}

// WithClass adds a CSS class to the control.
func WithClass(class string) InputOption {
	return func(cfg *inputConfig) {
		cfg.cssClass = strings.TrimSpace(class)
	}
}

// WithInputType overrides the input type attribute (email, number, ...).
func WithInputType(inputType string) InputOption {
	return func(cfg *inputConfig) {
		cfg.inputType = strings.TrimSpace(inputType)
	}
}

// Label renders a label bound to the attribute's control id.
func (f *FormBuilder) Label(attribute, text string) string {
	var b strings.Builder
	b.WriteString(`<label for="`)
	b.WriteString(idFromName(f.FieldName(attribute)))
	b.WriteString(`"`)
	if class := f.themeToken("label"); class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`</label>`)
	return b.String()
}

// TextField renders a text input named after the attribute. The value comes
// from WithValue when given, else from the bound record's attribute.
func (f *FormBuilder) TextField(attribute string, opts ...InputOption) string {
	cfg := inputConfig{inputType: "text"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	value := cfg.value
	if !cfg.hasValue {
		value = f.recordAttribute(attribute)
	}

	name := f.FieldName(attribute)
	var b strings.Builder
	b.WriteString(`<input type="`)
	b.WriteString(html.EscapeString(cfg.inputType))
	b.WriteString(`" id="`)
	b.WriteString(idFromName(name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(name))
	b.WriteString(`"`)
	if value != "" {
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(value))
		b.WriteString(`"`)
	}
	if cfg.placeholder != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(cfg.placeholder))
		b.WriteString(`"`)
	}
	if class := joinClasses(f.themeToken("input"), cfg.cssClass); class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	return b.String()
}

// HiddenField renders a hidden input carrying value.
func (f *FormBuilder) HiddenField(attribute, value string) string {
	name := f.FieldName(attribute)
	var b strings.Builder
	b.WriteString(`<input type="hidden" id="`)
	b.WriteString(idFromName(name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(name))
	b.WriteString(`" value="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`">`)
	return b.String()
}

// CheckBox renders a checkbox plus the hidden unchecked fallback browsers
// need so the attribute is always submitted.
func (f *FormBuilder) CheckBox(attribute string, checked bool) string {
	name := f.FieldName(attribute)
	var b strings.Builder
	b.WriteString(`<input type="hidden" name="`)
	b.WriteString(html.EscapeString(name))
	b.WriteString(`" value="0">`)
	b.WriteString(`<input type="checkbox" id="`)
	b.WriteString(idFromName(name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(name))
	b.WriteString(`" value="1"`)
	if checked {
		b.WriteString(` checked`)
	}
	b.WriteString(`>`)
	return b.String()
}

// DestroyCheckBox renders the _destroy control the nested assignment
// dispatcher interprets as a removal request.
func (f *FormBuilder) DestroyCheckBox() string {
	return f.CheckBox("_destroy", false)
}

// Hint renders caller-supplied help markup, sanitized to inline tags.
func (f *FormBuilder) Hint(markup string) string {
	cleaned := sanitizeInline(markup)
	if cleaned == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<p`)
	if class := f.themeToken("hint"); class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	b.WriteString(cleaned)
	b.WriteString(`</p>`)
	return b.String()
}

// Fieldset wraps inner markup in themed fieldset chrome.
func (f *FormBuilder) Fieldset(legend, inner string) string {
	var b strings.Builder
	b.Grow(len(inner) + 128)
	b.WriteString(`<fieldset`)
	if class := f.themeToken("fieldset"); class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteString(`"`)
	}
	if style := f.themeCSSVarsStyle(); style != "" {
		b.WriteString(` style="`)
		b.WriteString(html.EscapeString(style))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	if legend != "" {
		b.WriteString(`<legend>`)
		b.WriteString(html.EscapeString(legend))
		b.WriteString(`</legend>`)
	}
	b.WriteString(inner)
	b.WriteString(`</fieldset>`)
	return b.String()
}

func (f *FormBuilder) recordAttribute(attribute string) string {
	reader, ok := f.scope.Record().(model.AttributeReader)
	if !ok {
		return ""
	}
	value, ok := reader.Attribute(attribute)
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func (f *FormBuilder) themeToken(name string) string {
	if f.cfg.Theme == nil {
		return ""
	}
	return f.cfg.Theme.Tokens[name]
}

func (f *FormBuilder) themeCSSVarsStyle() string {
	if f.cfg.Theme == nil || len(f.cfg.Theme.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f.cfg.Theme.CSSVars))
	for key := range f.cfg.Theme.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(f.cfg.Theme.CSSVars[key])
	}
	return b.String()
}

// idFromName turns a bracketed input name into a DOM id:
// person[addresses_attributes][7][street] -> person_addresses_attributes_7_street.
func idFromName(name string) string {
	replaced := strings.NewReplacer("][", "_", "[", "_", "]", "").Replace(name)
	return strings.Trim(replaced, "_")
}

func joinClasses(classes ...string) string {
	out := make([]string, 0, len(classes))
	for _, class := range classes {
		if class = strings.TrimSpace(class); class != "" {
			out = append(out, class)
		}
	}
	return strings.Join(out, " ")
}

var (
	inlinePolicyOnce sync.Once
	inlinePolicy     *bluemonday.Policy
)

// sanitizeInline strips hint markup down to harmless inline tags.
func sanitizeInline(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	inlinePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "code", "span", "br")
		policy.AllowAttrs("href", "title").OnElements("a")
		policy.AllowStandardURLs()
		policy.AllowElements("a")
		inlinePolicy = policy
	})
	return strings.TrimSpace(inlinePolicy.Sanitize(trimmed))
}
