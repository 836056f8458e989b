package builder

import (
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/scope"
)

func TestTextFieldReadsRecordAttribute(t *testing.T) {
	record := model.NewMapRecord("7", map[string]any{"street": "Rua A"})
	f := New(scope.New("person[addresses_attributes][7]", scope.WithRecord(record)))

	got := f.TextField("street")
	if !strings.Contains(got, `name="person[addresses_attributes][7][street]"`) {
		t.Fatalf("unexpected input name: %q", got)
	}
	if !strings.Contains(got, `value="Rua A"`) {
		t.Fatalf("expected value from record attribute: %q", got)
	}
	if !strings.Contains(got, `id="person_addresses_attributes_7_street"`) {
		t.Fatalf("unexpected id: %q", got)
	}
}

func TestTextFieldExplicitValueWinsAndEscapes(t *testing.T) {
	f := New(scope.New("person"))

	got := f.TextField("name", WithValue(`"Ada" <admin>`), WithPlaceholder("Full name"))
	if !strings.Contains(got, `value="&#34;Ada&#34; &lt;admin&gt;"`) {
		t.Fatalf("value must be escaped: %q", got)
	}
	if !strings.Contains(got, `placeholder="Full name"`) {
		t.Fatalf("expected placeholder: %q", got)
	}
}

func TestCheckBoxEmitsHiddenFallback(t *testing.T) {
	f := New(scope.New("person"))

	got := f.CheckBox("active", true)
	if !strings.Contains(got, `type="hidden" name="person[active]" value="0"`) {
		t.Fatalf("expected hidden fallback: %q", got)
	}
	if !strings.Contains(got, `type="checkbox"`) || !strings.Contains(got, " checked") {
		t.Fatalf("expected checked checkbox: %q", got)
	}
}

func TestDestroyCheckBoxNamesDestroyControl(t *testing.T) {
	f := New(scope.New("person[addresses_attributes][7]"))

	got := f.DestroyCheckBox()
	if !strings.Contains(got, `name="person[addresses_attributes][7][_destroy]"`) {
		t.Fatalf("unexpected destroy control name: %q", got)
	}
}

func TestLabelBindsControlID(t *testing.T) {
	f := New(scope.New("person"))

	got := f.Label("email", "Email <work>")
	if !strings.Contains(got, `for="person_email"`) {
		t.Fatalf("unexpected label target: %q", got)
	}
	if !strings.Contains(got, "Email &lt;work&gt;") {
		t.Fatalf("label text must be escaped: %q", got)
	}
}

func TestHintSanitizesMarkup(t *testing.T) {
	f := New(scope.New("person"))

	got := f.Hint(`Use your <strong>legal</strong> name<script>alert(1)</script>`)
	if !strings.Contains(got, "<strong>legal</strong>") {
		t.Fatalf("inline markup must survive: %q", got)
	}
	if strings.Contains(got, "script") {
		t.Fatalf("script tags must be stripped: %q", got)
	}

	if f.Hint("   ") != "" {
		t.Fatalf("blank hints must render nothing")
	}
}

func TestFieldsetAppliesThemeChrome(t *testing.T) {
	cfg := &theme.RendererConfig{
		Tokens:  map[string]string{"fieldset": "nested-group", "input": "control"},
		CSSVars: map[string]string{"--gap": "8px"},
	}
	f := New(scope.New("person"), WithTheme(cfg))

	got := f.Fieldset("Addresses", "<inner>")
	if !strings.Contains(got, `class="nested-group"`) {
		t.Fatalf("expected theme fieldset class: %q", got)
	}
	if !strings.Contains(got, "--gap: 8px") {
		t.Fatalf("expected css vars style: %q", got)
	}
	if !strings.Contains(got, "<legend>Addresses</legend>") || !strings.Contains(got, "<inner>") {
		t.Fatalf("unexpected fieldset body: %q", got)
	}

	input := f.TextField("name", WithClass("wide"))
	if !strings.Contains(input, `class="control wide"`) {
		t.Fatalf("theme input class must merge with caller class: %q", input)
	}
}
