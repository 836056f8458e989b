package model

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores association descriptors keyed by owner name, providing the
// explicit capability query the builder consults before treating a target as
// a nested association. Safe for concurrent readers.
type Registry struct {
	mu     sync.RWMutex
	owners map[string]map[string]Association
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		owners: make(map[string]map[string]Association),
	}
}

// Register adds an association for an owner. Duplicate names for the same
// owner and missing name/cardinality values return an error.
func (r *Registry) Register(owner string, assoc Association) error {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return fmt.Errorf("model: association owner is required")
	}
	if strings.TrimSpace(assoc.Name) == "" {
		return fmt.Errorf("model: association name is required for owner %q", owner)
	}
	if assoc.Cardinality != CardinalityOne && assoc.Cardinality != CardinalityMany {
		return fmt.Errorf("model: association %q on %q has invalid cardinality %q", assoc.Name, owner, assoc.Cardinality)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.owners[owner][assoc.Name]; exists {
		return fmt.Errorf("model: association %q already registered for owner %q", assoc.Name, owner)
	}
	if r.owners[owner] == nil {
		r.owners[owner] = make(map[string]Association)
	}
	r.owners[owner][assoc.Name] = assoc
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(owner string, assoc Association) {
	if err := r.Register(owner, assoc); err != nil {
		panic(err)
	}
}

// Lookup retrieves an association by owner and name.
func (r *Registry) Lookup(owner, name string) (Association, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assoc, ok := r.owners[owner][name]
	return assoc, ok
}

// Eligible reports whether the owner accepts nested attributes for name.
func (r *Registry) Eligible(owner, name string) bool {
	_, ok := r.Lookup(owner, name)
	return ok
}

// Nested returns the owner's associations sorted by name.
func (r *Registry) Nested(owner string) []Association {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Association, 0, len(r.owners[owner]))
	for _, assoc := range r.owners[owner] {
		out = append(out, assoc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Owners returns a sorted list of owner names with registered associations.
func (r *Registry) Owners() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.owners))
	for name := range r.owners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
