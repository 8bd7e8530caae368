package function

import (
	"fmt"
	"sync"

	"github.com/samber/do/v2"
)

// DependencyResolver maps logical dependency names (e.g. "controller") to
// named services in a do injector. Locators can be overridden from
// configuration ("dependencies.<name>").
//
// Resolvable components are provided as any so that consumers can ask for
// whichever interface they need:
//
//	do.ProvideNamed(injector, "dummy.controller", func(do.Injector) (any, error) {
//	    return controller, nil
//	})
type DependencyResolver struct {
	injector do.Injector

	mu       sync.RWMutex
	locators map[string]string
}

// NewDependencyResolver creates a resolver backed by injector.
func NewDependencyResolver(injector do.Injector) *DependencyResolver {
	return &DependencyResolver{
		injector: injector,
		locators: make(map[string]string),
	}
}

// Put sets the locator for a dependency name.
func (r *DependencyResolver) Put(name, locator string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locators[name] = locator
}

// Configure applies locator overrides. Empty values are ignored.
func (r *DependencyResolver) Configure(overrides map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, locator := range overrides {
		if locator != "" {
			r.locators[name] = locator
		}
	}
}

// Locator returns the locator for a dependency name.
func (r *DependencyResolver) Locator(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locators[name]
	return l, ok
}

// Resolve returns the named dependency as T.
func Resolve[T any](r *DependencyResolver, name string) (T, error) {
	var zero T

	locator, ok := r.Locator(name)
	if !ok {
		return zero, fmt.Errorf("dependency %q is not defined", name)
	}

	v, err := do.InvokeNamed[any](r.injector, locator)
	if err != nil {
		return zero, fmt.Errorf("resolving dependency %q (%s): %w", name, locator, err)
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("dependency %q (%s) is %T, not %T", name, locator, v, zero)
	}
	return t, nil
}
