package builder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-nestedform/internal/naming"
	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/scope"
)

// FormBuilder is the default Builder implementation. The child-token counter
// lives for the builder's lifetime and is shared with every nested builder
// it spawns, so new_<n> tokens never collide within one form render.
type FormBuilder struct {
	scope   scope.Scope
	cfg     *Config
	counter *childCounter
}

var _ Builder = (*FormBuilder)(nil)

// New constructs a FormBuilder for the given scope.
func New(s scope.Scope, options ...Option) *FormBuilder {
	cfg := &Config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return &FormBuilder{
		scope:   s,
		cfg:     cfg,
		counter: &childCounter{},
	}
}

// Scope returns the builder's naming context.
func (f *FormBuilder) Scope() scope.Scope {
	return f.scope
}

// FieldName derives the submitted input name for one attribute of the bound
// record, e.g. "person[3][email]" under an indexed person scope.
func (f *FormBuilder) FieldName(attribute string) string {
	return f.scope.ChildName(attribute)
}

// FieldsFor derives the nested input name for target and invokes fn with a
// builder bound to the derived sub-scope.
//
// A string target naming a registered association on the bound record fans
// out over the association (see dispatchAssociation); any other string is a
// plain named sub-scope. A record target, or a slice whose last element is
// the record currently being iterated, derives a type-based name and binds
// the record to the child scope.
func (f *FormBuilder) FieldsFor(target any, fn RenderFunc, opts ...FieldsOption) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("builder: fields continuation is required")
	}

	cfg := applyFieldsOptions(opts)
	current := f.scope
	if cfg.hasIndex {
		current = current.Indexed(cfg.index)
	}

	if name, ok := target.(string); ok {
		if assoc, eligible := f.eligibleAssociation(name); eligible {
			return f.dispatchAssociation(current, assoc, fn, cfg)
		}
		child := scope.New(current.ChildName(name), scope.WithRecord(cfg.record))
		return fn(f.spawn(child))
	}

	record, ok := unwrapTarget(target).(model.Record)
	if !ok {
		return "", fmt.Errorf("builder: fields target must be a name or a Record, got %T", target)
	}

	paramName := recordParamName(record)
	if paramName == "" {
		return "", fmt.Errorf("builder: cannot derive a parameter name for %T", record)
	}

	child := scope.New(current.ChildName(paramName), scope.WithRecord(record))
	return fn(f.spawn(child))
}

// eligibleAssociation answers the capability query: is name a registered
// association of the bound record's owner type?
func (f *FormBuilder) eligibleAssociation(name string) (model.Association, bool) {
	if f.cfg.Registry == nil {
		return model.Association{}, false
	}
	owner := recordParamName(f.scope.Record())
	if owner == "" {
		return model.Association{}, false
	}
	return f.cfg.Registry.Lookup(owner, name)
}

// dispatchAssociation routes a nested-attribute association: collection
// members each render under carrier[token], a single related record renders
// under the bare carrier name.
func (f *FormBuilder) dispatchAssociation(current scope.Scope, assoc model.Association, fn RenderFunc, cfg fieldsConfig) (string, error) {
	accessor, ok := current.Record().(model.Accessor)
	if !ok {
		return "", fmt.Errorf("builder: record %T does not expose an association reader for %q", current.Record(), assoc.Name)
	}

	carrier := current.CarrierName(assoc.Name)
	value, _ := accessor.Association(assoc.Name)

	if !assoc.Collection() {
		record, err := asRecord(value, assoc.Name)
		if err != nil {
			return "", err
		}
		child := scope.New(carrier, scope.WithRecord(record))
		return fn(f.spawn(child))
	}

	members, err := asRecordSlice(value, assoc.Name)
	if err != nil {
		return "", err
	}
	if cfg.target != nil {
		// Documented narrowing: an explicit target replaces the whole
		// collection for this invocation.
		members = []model.Record{cfg.target}
	}

	var out strings.Builder
	for _, member := range members {
		token := f.childToken(member)
		child := scope.New(naming.Child(carrier, token), scope.WithRecord(member))
		fragment, err := fn(f.spawn(child))
		if err != nil {
			return "", err
		}
		out.WriteString(fragment)
	}
	return out.String(), nil
}

// childToken returns the persisted primary key or mints a fresh new_<n>
// token from the builder-owned counter.
func (f *FormBuilder) childToken(member model.Record) string {
	if member != nil && !member.IsNew() && member.PrimaryKey() != "" {
		return member.PrimaryKey()
	}
	return fmt.Sprintf("new_%d", f.counter.next())
}

// RenderFragment renders a named template through the configured engine.
// Templates see the caller's data plus "scope_name" (the scope's base name)
// and a "field_name" function deriving full input names, so fragment
// templates stay agnostic of where in the form they render.
func (f *FormBuilder) RenderFragment(name string, data map[string]any) (string, error) {
	if f.cfg.Templates == nil {
		return "", fmt.Errorf("builder: no template engine configured")
	}

	ctx := map[string]any{
		"scope_name": f.scope.BaseName(),
		"field_name": f.FieldName,
	}
	for key, value := range data {
		ctx[key] = value
	}
	return f.cfg.Templates.Render(name, ctx)
}

// spawn builds the nested builder for a child scope, sharing config and the
// token counter.
func (f *FormBuilder) spawn(child scope.Scope) *FormBuilder {
	return &FormBuilder{
		scope:   child,
		cfg:     f.cfg,
		counter: f.counter,
	}
}

type childCounter struct {
	n int
}

func (c *childCounter) next() int {
	c.n++
	return c.n
}

// unwrapTarget resolves the record of interest: the value itself, or the
// last element when the target is a non-empty slice or array.
func unwrapTarget(target any) any {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		if v.Len() == 0 {
			return nil
		}
		last := v.Index(v.Len() - 1)
		if !last.CanInterface() {
			return nil
		}
		return last.Interface()
	}
	return target
}

// recordParamName resolves the parameter/owner name for a record: an
// explicit ModelName when the record reports one, else the singularized
// snake_case type name.
func recordParamName(record any) string {
	if record == nil {
		return ""
	}
	if named, ok := record.(model.Named); ok {
		if name := strings.TrimSpace(named.ModelName()); name != "" {
			return name
		}
	}
	return naming.ParamName(record)
}

func asRecord(value any, association string) (model.Record, error) {
	if value == nil {
		return nil, nil
	}
	record, ok := value.(model.Record)
	if !ok {
		return nil, fmt.Errorf("builder: association %q holds %T, expected a single record", association, value)
	}
	return record, nil
}

func asRecordSlice(value any, association string) ([]model.Record, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []model.Record:
		return v, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("builder: association %q holds %T, expected a collection", association, value)
	}

	out := make([]model.Record, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		member, ok := rv.Index(i).Interface().(model.Record)
		if !ok {
			return nil, fmt.Errorf("builder: association %q member %d (%T) does not implement Record", association, i, rv.Index(i).Interface())
		}
		out = append(out, member)
	}
	return out, nil
}
