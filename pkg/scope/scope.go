// Package scope models the naming and indexing context active while one
// group of form fields renders. Scopes are immutable; collection fan-out
// builds child scopes rather than mutating shared state.
package scope

import (
	"strconv"

	"github.com/goliatone/go-nestedform/internal/naming"
)

// Scope carries a base parameter name, an optional bound record, and at most
// one of an explicit index (caller supplied) or an auto index (threaded down
// by an enclosing collection iteration).
type Scope struct {
	baseName string
	record   any

	explicitIndex string
	hasExplicit   bool

	autoIndex int
	hasAuto   bool
}

// Option configures a scope at construction time.
type Option func(*Scope)

// WithRecord binds a record to the scope. The scope only reads identity and
// association state from it.
func WithRecord(record any) Option {
	return func(s *Scope) {
		s.record = record
	}
}

// WithIndex sets an explicit index. An explicit index always wins over a
// threaded auto index.
func WithIndex(index string) Option {
	return func(s *Scope) {
		s.explicitIndex = index
		s.hasExplicit = true
	}
}

// WithAutoIndex threads the position of the collection member currently
// being rendered into the scope.
func WithAutoIndex(index int) Option {
	return func(s *Scope) {
		s.autoIndex = index
		s.hasAuto = true
	}
}

// New constructs a scope for the given base parameter name.
func New(baseName string, options ...Option) Scope {
	s := Scope{baseName: baseName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s)
	}
	return s
}

// BaseName returns the scope's base parameter name.
func (s Scope) BaseName() string { return s.baseName }

// Record returns the bound record, nil when the scope has none.
func (s Scope) Record() any { return s.record }

// HasExplicitIndex reports whether a caller-supplied index is present.
func (s Scope) HasExplicitIndex() bool { return s.hasExplicit }

// IndexSuffix returns the bracketed index segment appended to the base name:
// the explicit index when present, else the threaded auto index, else "".
func (s Scope) IndexSuffix() string {
	switch {
	case s.hasExplicit:
		return "[" + s.explicitIndex + "]"
	case s.hasAuto:
		return "[" + strconv.Itoa(s.autoIndex) + "]"
	default:
		return ""
	}
}

// indexedBase resolves the effective base name. The auto-index branch strips
// one trailing "[]" marker since the numeric index replaces array-style
// submission.
func (s Scope) indexedBase() string {
	switch {
	case s.hasExplicit:
		return naming.Indexed(s.baseName, s.explicitIndex)
	case s.hasAuto:
		return naming.Indexed(naming.StripMultiMarker(s.baseName), strconv.Itoa(s.autoIndex))
	default:
		return s.baseName
	}
}

// Indexed returns a copy of the scope carrying an explicit index, used when
// a fields invocation supplies a per-call index override.
func (s Scope) Indexed(index string) Scope {
	s.explicitIndex = index
	s.hasExplicit = true
	return s
}

// ChildName derives the input name for a plain named sub-scope.
func (s Scope) ChildName(name string) string {
	return naming.Child(s.indexedBase(), name)
}

// CarrierName derives the nested attribute-carrier name for an association.
// Carriers never take an index segment.
func (s Scope) CarrierName(association string) string {
	return naming.AttributeCarrier(s.baseName, association)
}
