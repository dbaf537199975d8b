package components

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-refs/pkg/render"
	rendertemplate "github.com/goliatone/go-refs/pkg/render/template"
)

// Renderer defines the contract component renderers must satisfy. Implementations
// receive the props injected by the parent (record, ids, data, basePath...) and
// write HTML into buf using the supplied template renderer or custom logic.
type Renderer func(buf *bytes.Buffer, props render.Props, data ComponentData) error

// ComponentData carries helpers for component renderers.
type ComponentData struct {
	Context  context.Context
	Template rendertemplate.TemplateRenderer
	// RenderChild renders a child element with overrides merged over its props.
	RenderChild func(child render.Element, overrides render.Props) (string, error)
	// ThemePartials maps partial keys ("refs.text") to template overrides.
	ThemePartials map[string]string
	// Translate resolves a translation key against the request locale.
	Translate func(key, fallback string) string
}

func (d ComponentData) translate(key, fallback string) string {
	if d.Translate == nil {
		return fallback
	}
	return d.Translate(key, fallback)
}

// Script is a component script asset. Src is resolved against the asset
// prefix.
type Script struct {
	Src   string
	Defer bool
}

// Descriptor pairs a component renderer with the assets it needs on the page.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
	Scripts     []Script
}

// Registry holds the child components a reference view can render, keyed by
// lower-case name.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Descriptor
}

func New() *Registry {
	return &Registry{byKey: map[string]Descriptor{}}
}

// Register adds or replaces a component.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	key := componentKey(name)
	if key == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", key)
	}
	descriptor.Name = key

	r.mu.Lock()
	r.byKey[key] = descriptor.clone()
	r.mu.Unlock()
	return nil
}

// MustRegister is Register for static setup.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor returns a copy of the named component.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.byKey[componentKey(name)]
	if !ok {
		return Descriptor{}, false
	}
	return descriptor.clone(), true
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byKey))
	for name := range r.byKey {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Assets collects the stylesheets and scripts of the named components in
// first-seen order. Unknown names are skipped.
func (r *Registry) Assets(names []string) (stylesheets []string, scripts []Script) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	for _, name := range names {
		descriptor, ok := r.byKey[componentKey(name)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href != "" && !seen["css:"+href] {
				seen["css:"+href] = true
				stylesheets = append(stylesheets, href)
			}
		}
		for _, script := range descriptor.Scripts {
			if script.Src != "" && !seen["js:"+script.Src] {
				seen["js:"+script.Src] = true
				scripts = append(scripts, script)
			}
		}
	}
	return stylesheets, scripts
}

func (d Descriptor) clone() Descriptor {
	d.Stylesheets = slices.Clone(d.Stylesheets)
	d.Scripts = slices.Clone(d.Scripts)
	return d
}

func componentKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
