package builder

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-nestedform/pkg/scope"
)

// Factory constructs a builder for a scope using the supplied config.
type Factory func(s scope.Scope, options ...Option) Builder

// Registry stores builder factories by name and tracks which one the host
// pipeline uses when no builder is requested explicitly. Requesting a named
// factory is always possible, so installing a default never removes the
// escape hatch back to another builder.
type Registry struct {
	mu          sync.RWMutex
	factories   map[string]Factory
	defaultName string
}

// NewRegistry creates a registry pre-populated with the default FormBuilder
// factory under the name "form".
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
	}
	r.factories[DefaultName] = func(s scope.Scope, options ...Option) Builder {
		return New(s, options...)
	}
	r.defaultName = DefaultName
	return r
}

// DefaultName is the registry key of the built-in FormBuilder factory.
const DefaultName = "form"

// Register adds a factory by name. Duplicate names return an error.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("builder: factory name is required")
	}
	if factory == nil {
		return fmt.Errorf("builder: factory is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("builder: factory %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Get retrieves a factory by name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("builder: factory %q not found", name)
	}
	return factory, nil
}

// SetDefault installs the named factory as the one Default returns. The
// factory must already be registered.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; !ok {
		return fmt.Errorf("builder: factory %q not found", name)
	}
	r.defaultName = name
	return nil
}

// Default returns the currently installed default factory.
func (r *Registry) Default() Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.factories[r.defaultName]
}

// DefaultFactoryName reports which factory Default resolves to.
func (r *Registry) DefaultFactoryName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.defaultName
}

// List returns a sorted list of registered factory names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
