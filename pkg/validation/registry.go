package validation

import (
	"fmt"
	"sort"
	"sync"
)

// CheckFunc is a named domain check run against the current values (fields
// plus derived values). A nil error passes; the error text is shown to the
// user.
type CheckFunc func(values map[string]any) error

// Registry maps check names used by step definitions to implementations.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]CheckFunc)}
}

// Register adds a check. Registering a name twice replaces the previous
// implementation.
func (r *Registry) Register(name string, fn CheckFunc) error {
	if name == "" {
		return fmt.Errorf("validation: check name is required")
	}
	if fn == nil {
		return fmt.Errorf("validation: check %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = fn
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn CheckFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the check registered under name.
func (r *Registry) Lookup(name string) (CheckFunc, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.checks[name]
	return fn, ok
}

// Names lists registered checks in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.checks))
	for name := range r.checks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
