package render

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps output names ("html", "json", "page") to renderers. Names are
// case-insensitive.
type Registry struct {
	mu  sync.RWMutex
	out map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{out: map[string]Renderer{}}
}

func outputKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds renderer under its Name. A second renderer with the same
// name is rejected.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	key := outputKey(renderer.Name())
	if key == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.out[key]; taken {
		return fmt.Errorf("render: renderer %q already registered", key)
	}
	r.out[key] = renderer
	return nil
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.out[outputKey(name)]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("render: output %q not registered (have %s)", name, strings.Join(r.sortedNames(), ", "))
}

// Has reports whether a renderer is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.out[outputKey(name)]
	return ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.out))
	for name := range r.out {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
