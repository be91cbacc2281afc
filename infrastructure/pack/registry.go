// Package pack provides the problem family registry implementation.
package pack

import (
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/descent/domain/pack"
)

// Registry is an in-memory family registry.
type Registry struct {
	families map[string]pack.Family
	mu       sync.RWMutex
}

// NewRegistry creates a new family registry.
func NewRegistry() *Registry {
	return &Registry{
		families: make(map[string]pack.Family),
	}
}

// Register adds a family to the registry.
func (r *Registry) Register(f pack.Family) error {
	if f == nil || f.Name() == "" {
		return pack.ErrInvalidFamily
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.families[f.Name()]; exists {
		return fmt.Errorf("%w: %s", pack.ErrFamilyExists, f.Name())
	}

	r.families[f.Name()] = f
	return nil
}

// Get retrieves a family by name.
func (r *Registry) Get(name string) (pack.Family, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.families[name]
	return f, ok
}

// MustGet retrieves a family by name or returns ErrFamilyNotFound.
func (r *Registry) MustGet(name string) (pack.Family, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", pack.ErrFamilyNotFound, name)
	}
	return f, nil
}

// List returns all registered families sorted by name.
func (r *Registry) List() []pack.Family {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]pack.Family, 0, len(r.families))
	for _, f := range r.families {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Names returns the sorted names of all registered families.
func (r *Registry) Names() []string {
	families := r.List()
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.Name()
	}
	return names
}

// Unregister removes a family from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.families[name]; !exists {
		return fmt.Errorf("%w: %s", pack.ErrFamilyNotFound, name)
	}

	delete(r.families, name)
	return nil
}

// Len returns the number of registered families.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.families)
}

var _ pack.Registry = (*Registry)(nil)
