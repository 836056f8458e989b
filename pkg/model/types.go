// Package model defines the object-model surface the form builder and the
// nested-attribute dispatcher operate against: records with persistence
// identity, association descriptors, and the registry that answers
// capability queries about them.
package model

import "strings"

// Cardinality tells the dispatcher whether an association holds one related
// record or an ordered collection.
type Cardinality string

const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// Association describes one named relation from an owner type to a target
// type. Registering an association for an owner is what makes it eligible
// for nested-attribute handling; there is no runtime method probing.
type Association struct {
	Name         string      `json:"name" yaml:"name"`
	Target       string      `json:"target,omitempty" yaml:"target,omitempty"`
	Cardinality  Cardinality `json:"cardinality" yaml:"cardinality"`
	ForeignKey   string      `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty"`
	Inverse      string      `json:"inverse,omitempty" yaml:"inverse,omitempty"`
	AllowDestroy bool        `json:"allowDestroy,omitempty" yaml:"allowDestroy,omitempty"`
}

// Collection reports whether the association fans out over multiple records.
func (a Association) Collection() bool {
	return a.Cardinality == CardinalityMany
}

// NormalizeCardinality maps relationship vocabulary (belongsTo, hasOne,
// hasMany, one, many) onto a Cardinality. Unknown values report false.
func NormalizeCardinality(raw string) (Cardinality, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "belongsto", "hasone", "one":
		return CardinalityOne, true
	case "hasmany", "many":
		return CardinalityMany, true
	default:
		return "", false
	}
}

// Record exposes the persistence identity used to mint child tokens: a
// freshly built record reports IsNew true and its primary key is ignored.
type Record interface {
	IsNew() bool
	PrimaryKey() string
}

// Accessor reads association values off a record. The returned value must be
// a Record, a slice whose elements implement Record, or nil; ok reports
// whether the name resolves at all.
type Accessor interface {
	Association(name string) (value any, ok bool)
}

// AttributeWriter applies a bulk attribute map to a record. The nested
// assignment dispatcher uses it when routing child params.
type AttributeWriter interface {
	SetAttributes(attrs map[string]any) error
}

// AttributeReader reads a single attribute value off a record so input
// helpers can pre-populate controls.
type AttributeReader interface {
	Attribute(name string) (value any, ok bool)
}

// Named lets a record report the owner name used for registry lookups when
// the Go type name is not the right parameter name (or does not exist, as
// with MapRecord).
type Named interface {
	ModelName() string
}
