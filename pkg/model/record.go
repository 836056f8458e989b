package model

import (
	"fmt"
	"sort"
	"strings"
)

// MapRecord is a map-backed Record implementation used by the CLI, tests,
// and callers that do not have their own model layer. A record with an empty
// id is considered new; assigning an id marks it persisted.
type MapRecord struct {
	id           string
	modelName    string
	attributes   map[string]any
	associations map[string]any
	destroyed    bool
}

var (
	_ Record          = (*MapRecord)(nil)
	_ Accessor        = (*MapRecord)(nil)
	_ AttributeWriter = (*MapRecord)(nil)
	_ AttributeReader = (*MapRecord)(nil)
	_ Named           = (*MapRecord)(nil)
)

// NewMapRecord builds a record with the given id and attributes. Pass an
// empty id for an unpersisted record.
func NewMapRecord(id string, attributes map[string]any) *MapRecord {
	rec := &MapRecord{
		id:           strings.TrimSpace(id),
		attributes:   make(map[string]any, len(attributes)),
		associations: make(map[string]any),
	}
	for key, value := range attributes {
		rec.attributes[key] = value
	}
	return rec
}

// SetModelName sets the owner name reported by ModelName.
func (r *MapRecord) SetModelName(name string) {
	r.modelName = strings.TrimSpace(name)
}

// ModelName returns the owner name used for registry lookups.
func (r *MapRecord) ModelName() string {
	return r.modelName
}

// IsNew reports whether the record has no persisted identity yet.
func (r *MapRecord) IsNew() bool {
	return r.id == ""
}

// PrimaryKey returns the persisted identifier, empty for new records.
func (r *MapRecord) PrimaryKey() string {
	return r.id
}

// MarkPersisted records the identifier assigned by the persistence layer.
func (r *MapRecord) MarkPersisted(id string) {
	r.id = strings.TrimSpace(id)
}

// MarkDestroyed flags the record for removal; Destroyed reports the flag.
func (r *MapRecord) MarkDestroyed() { r.destroyed = true }

// Destroyed reports whether the record was flagged for removal.
func (r *MapRecord) Destroyed() bool { return r.destroyed }

// Attribute reads a single attribute value.
func (r *MapRecord) Attribute(name string) (any, bool) {
	value, ok := r.attributes[name]
	return value, ok
}

// AttributeNames returns the sorted attribute keys.
func (r *MapRecord) AttributeNames() []string {
	names := make([]string, 0, len(r.attributes))
	for name := range r.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetAttributes merges the given attribute map into the record.
func (r *MapRecord) SetAttributes(attrs map[string]any) error {
	for key, value := range attrs {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("model: attribute name is required")
		}
		r.attributes[key] = value
	}
	return nil
}

// Association reads an association value: a Record, a []Record, or nil.
func (r *MapRecord) Association(name string) (any, bool) {
	value, ok := r.associations[name]
	return value, ok
}

// SetAssociation stores a single related record under name.
func (r *MapRecord) SetAssociation(name string, related Record) {
	r.associations[name] = related
}

// SetCollection stores an ordered collection of related records under name.
func (r *MapRecord) SetCollection(name string, related []Record) {
	r.associations[name] = related
}

// AppendToCollection adds a record to the named collection, creating the
// collection when absent.
func (r *MapRecord) AppendToCollection(name string, related Record) error {
	existing, ok := r.associations[name]
	if !ok {
		r.associations[name] = []Record{related}
		return nil
	}
	collection, ok := existing.([]Record)
	if !ok {
		return fmt.Errorf("model: association %q is not a collection", name)
	}
	r.associations[name] = append(collection, related)
	return nil
}
