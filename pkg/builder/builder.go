// Package builder implements the form builder that derives nested input
// names and fans out over nested-attribute associations. Builders are plain
// injectable values; the host rendering pipeline picks one from the registry
// or constructs one directly.
package builder

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/render/template"
	"github.com/goliatone/go-nestedform/pkg/scope"
)

// RenderFunc is the continuation a fields invocation hands its nested
// builder to; it returns the rendered fragment for that sub-scope.
type RenderFunc func(f Builder) (string, error)

// Builder is the fixed method set the rendering pipeline relies on. The
// default implementation is FormBuilder; alternative builders register a
// Factory under their own name.
type Builder interface {
	// Scope returns the naming context the builder renders under.
	Scope() scope.Scope
	// FieldsFor derives the nested name for target and invokes fn with a
	// builder bound to the derived sub-scope.
	FieldsFor(target any, fn RenderFunc, opts ...FieldsOption) (string, error)
	// FieldName derives the submitted input name for one attribute.
	FieldName(attribute string) string
	// Input helpers emitting fragment markup under the builder's scope.
	Label(attribute, text string) string
	TextField(attribute string, opts ...InputOption) string
	HiddenField(attribute, value string) string
	CheckBox(attribute string, checked bool) string
	DestroyCheckBox() string
	Hint(markup string) string
	Fieldset(legend, inner string) string
	// RenderFragment renders a named template through the configured
	// engine, exposing the builder's naming helpers to the template.
	RenderFragment(name string, data map[string]any) (string, error)
}

// Config carries the collaborators a builder works against. All fields are
// optional: without a registry no target is association-eligible, without
// templates the template helpers are unavailable, without a theme the
// chrome stays unstyled.
type Config struct {
	Registry  *model.Registry
	Templates template.TemplateRenderer
	Theme     *theme.RendererConfig
}

// Option configures a FormBuilder at construction time.
type Option func(*Config)

// WithRegistry supplies the association registry consulted for
// nested-attribute eligibility.
func WithRegistry(registry *model.Registry) Option {
	return func(cfg *Config) {
		cfg.Registry = registry
	}
}

// WithTemplates supplies the template engine fragments can be rendered with.
func WithTemplates(templates template.TemplateRenderer) Option {
	return func(cfg *Config) {
		cfg.Templates = templates
	}
}

// WithTheme supplies resolved theme chrome (tokens and CSS variables)
// applied to fieldset wrappers.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *Config) {
		c.Theme = cfg
	}
}

// FieldsOption adjusts one FieldsFor invocation.
type FieldsOption func(*fieldsConfig)

type fieldsConfig struct {
	index    string
	hasIndex bool
	target   model.Record
	record   any
}

// WithIndex supplies an explicit index for the derivation; it always wins
// over a threaded auto index.
func WithIndex(index string) FieldsOption {
	return func(cfg *fieldsConfig) {
		cfg.index = index
		cfg.hasIndex = true
	}
}

// WithTarget narrows a collection association to one explicit member,
// supporting render-one-at-a-time flows inside an enclosing iteration. The
// rest of the collection is ignored for that invocation.
func WithTarget(target model.Record) FieldsOption {
	return func(cfg *fieldsConfig) {
		cfg.target = target
	}
}

// WithBoundRecord binds a record to a plain named sub-scope that is not an
// association dispatch.
func WithBoundRecord(record any) FieldsOption {
	return func(cfg *fieldsConfig) {
		cfg.record = record
	}
}

func applyFieldsOptions(opts []FieldsOption) fieldsConfig {
	var cfg fieldsConfig
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
