package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-refs/pkg/render"
	"github.com/goliatone/go-refs/pkg/renderers/vanilla/components"
)

type usageKey struct{}

type usage struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// WithUsage returns a context that records the components rendered under it.
// Read the names back with UsedComponents.
func WithUsage(ctx context.Context) context.Context {
	return context.WithValue(ctx, usageKey{}, &usage{names: make(map[string]struct{})})
}

// UsedComponents returns the sorted names of components rendered under a
// WithUsage context.
func UsedComponents(ctx context.Context) []string {
	u, ok := ctx.Value(usageKey{}).(*usage)
	if !ok {
		return nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	names := make([]string, 0, len(u.names))
	for name := range u.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func markUsed(ctx context.Context, name string) {
	u, ok := ctx.Value(usageKey{}).(*usage)
	if !ok {
		return
	}
	u.mu.Lock()
	u.names[name] = struct{}{}
	u.mu.Unlock()
}

// Element builds an element for the named component. Children are stored
// under the children prop for list components.
func (r *Renderer) Element(name string, props render.Props, children ...render.Element) (render.Element, error) {
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return render.Element{}, fmt.Errorf("component %q not registered", name)
	}
	return render.NewElement(descriptor.Name, &componentRenderer{
		templates:  r,
		descriptor: descriptor,
	}, props, children...), nil
}

// Assets resolves stylesheet and script URLs for the named components. A
// non-empty URL from the theme AssetURL resolver wins over the configured
// prefix.
func (r *Renderer) Assets(ctx context.Context, names []string) (stylesheets, scripts []string) {
	styles, scriptDescriptors := r.registry.Assets(names)
	resolve := r.assetResolver(ctx)

	for _, href := range styles {
		stylesheets = append(stylesheets, resolve(href))
	}
	for _, script := range scriptDescriptors {
		if script.Src == "" {
			continue
		}
		scripts = append(scripts, resolve(script.Src))
	}
	return stylesheets, scripts
}

func (r *Renderer) assetResolver(ctx context.Context) func(string) string {
	opts := render.OptionsFrom(ctx)
	prefix := r.assetPrefix
	return func(name string) string {
		if opts.Theme != nil && opts.Theme.AssetURL != nil {
			if resolved := strings.TrimSpace(opts.Theme.AssetURL(name)); resolved != "" {
				return resolved
			}
		}
		if strings.HasPrefix(name, "/") || strings.Contains(name, "://") {
			return name
		}
		return strings.TrimRight(prefix, "/") + "/" + name
	}
}

type componentRenderer struct {
	templates  *Renderer
	descriptor components.Descriptor
}

func (c *componentRenderer) Render(ctx context.Context, props render.Props) (string, error) {
	opts := render.OptionsFrom(ctx)

	data := components.ComponentData{
		Context:  ctx,
		Template: c.templates.templates,
		RenderChild: func(child render.Element, overrides render.Props) (string, error) {
			return child.Clone(overrides).Render(ctx)
		},
		Translate: func(key, fallback string) string {
			return opts.Translate(key, fallback)
		},
	}
	if opts.Theme != nil {
		data.ThemePartials = opts.Theme.Partials
	}

	var buf bytes.Buffer
	if err := c.descriptor.Renderer(&buf, props, data); err != nil {
		return "", fmt.Errorf("render component %q: %w", c.descriptor.Name, err)
	}
	markUsed(ctx, c.descriptor.Name)
	return buf.String(), nil
}
