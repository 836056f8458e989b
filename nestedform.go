// Package nestedform derives the nested input names browser forms submit
// related records under, and routes the submitted nested attributes back
// into create/update/destroy operations against a host persistence layer.
//
// The form builder fans out over registered associations
// (person[addresses_attributes][7][street], ...[new_1][street]) and the
// nested package interprets those tokens on the way back in. Hosts describe
// their associations in a model.Registry, loaded from code, definition
// files, or OpenAPI x-relationships extensions.
package nestedform

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-nestedform/pkg/builder"
	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/nested"
	"github.com/goliatone/go-nestedform/pkg/scope"
)

// Association re-exports the association descriptor.
type Association = model.Association

// AssociationRegistry is the capability registry builders consult.
type AssociationRegistry = model.Registry

// Record is the persistence-identity contract for bound objects.
type Record = model.Record

// Builder is the injectable form-builder contract.
type Builder = builder.Builder

// RenderFunc is the continuation a fields invocation renders through.
type RenderFunc = builder.RenderFunc

// Scope is the naming context for one group of fields.
type Scope = scope.Scope

// Params and Attributes are the submitted nested payload shapes.
type Params = nested.Params

// Attributes is one child's submitted attribute map.
type Attributes = nested.Attributes

// Changeset is the routed outcome of one association's params.
type Changeset = nested.Changeset

// NewAssociationRegistry creates an empty association registry.
func NewAssociationRegistry() *model.Registry {
	return model.NewRegistry()
}

// defaultBuilders is the process-wide builder registry the host pipeline
// consults when no builder is requested explicitly.
var defaultBuilders = builder.NewRegistry()

// Builders exposes the process-wide builder registry.
func Builders() *builder.Registry {
	return defaultBuilders
}

// RegisterBuilder adds a builder factory to the process-wide registry.
func RegisterBuilder(name string, factory builder.Factory) error {
	return defaultBuilders.Register(name, factory)
}

// SetDefaultBuilder installs a registered factory as the default. The
// original FormBuilder stays reachable under builder.DefaultName, so
// installing a custom default never removes the escape hatch.
func SetDefaultBuilder(name string) error {
	return defaultBuilders.SetDefault(name)
}

// Form constructs a builder for a top-level record scope using the installed
// default factory.
func Form(name string, record any, options ...builder.Option) Builder {
	factory := defaultBuilders.Default()
	return factory(scope.New(name, scope.WithRecord(record)), options...)
}

// FormWith constructs a builder using an explicitly named factory,
// bypassing the installed default.
func FormWith(factoryName, name string, record any, options ...builder.Option) (Builder, error) {
	factory, err := defaultBuilders.Get(factoryName)
	if err != nil {
		return nil, err
	}
	return factory(scope.New(name, scope.WithRecord(record)), options...), nil
}

// FieldsFor is the one-call entry point: build a form for record and derive
// nested fields for target in a single invocation.
func FieldsFor(name string, record any, target any, fn RenderFunc, options ...builder.Option) (string, error) {
	return Form(name, record, options...).FieldsFor(target, fn)
}

// Assign routes a collection association's submitted params; see
// nested.Assign.
func Assign(parent model.Accessor, assoc Association, params Params) (Changeset, error) {
	return nested.Assign(parent, assoc, params)
}

// AssignOne routes a singular association's submitted attributes; see
// nested.AssignOne.
func AssignOne(parent model.Accessor, assoc Association, attrs Attributes) (Changeset, error) {
	return nested.AssignOne(parent, assoc, attrs)
}

// Cascade persists a parent and its routed changesets through the host
// saver; see nested.Cascade.
func Cascade(ctx context.Context, saver nested.Saver, parent Record, changesets ...Changeset) error {
	return nested.Cascade(ctx, saver, parent, changesets...)
}

// WithTheme passes resolved go-theme chrome through to builders.
func WithTheme(cfg *theme.RendererConfig) builder.Option {
	return builder.WithTheme(cfg)
}

// WithRegistry supplies the association registry builders consult.
func WithRegistry(registry *model.Registry) builder.Option {
	return builder.WithRegistry(registry)
}
