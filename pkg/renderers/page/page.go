// Package page renders a reference field as a standalone HTML document that
// loads the hydration runtime for references left pending on the server.
package page

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-refs/pkg/render"
	rendertemplate "github.com/goliatone/go-refs/pkg/render/template"
	gotemplate "github.com/goliatone/go-refs/pkg/render/template/gotemplate"
	"github.com/goliatone/go-refs/pkg/runtime"
)

const (
	templateName = "templates/page.tmpl"

	// DefaultEndpoint is where the runtime fetches deferred references.
	DefaultEndpoint = "/api/references"

	themeAssetRuntimeScript = "refs.runtime"
	themeAssetStylesheet    = "refs.stylesheet"
)

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	assetURLPrefix   string
	endpoint         string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAssetURLPrefix prefixes the runtime asset paths (e.g. "/static/refs").
func WithAssetURLPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetURLPrefix = prefix
	}
}

// WithEndpoint sets the URL the runtime queries for deferred references.
func WithEndpoint(endpoint string) Option {
	return func(cfg *config) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			cfg.endpoint = endpoint
		}
	}
}

// Renderer turns a render.Result into a full HTML document.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	assetURLPrefix string
	endpoint       string
}

// New constructs a page renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		endpoint:   DefaultEndpoint,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		if err := ensureTemplate(cfg.templateFS, templateName); err != nil {
			return nil, err
		}
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("page renderer: configure template renderer: %w", err)
		}
		templateRenderer = engine
	}

	return &Renderer{
		templates:      templateRenderer,
		assetURLPrefix: cfg.assetURLPrefix,
		endpoint:       cfg.endpoint,
	}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return "page"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type statePayload struct {
	Endpoint string        `json:"endpoint"`
	Field    render.Result `json:"field"`
	Theme    *themePayload `json:"theme,omitempty"`
}

type themePayload struct {
	Name    string            `json:"name,omitempty"`
	Variant string            `json:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens,omitempty"`
	CSSVars map[string]string `json:"cssVars,omitempty"`
}

// Render produces the document. The rendered field HTML is embedded as is;
// the field result is repeated in a JSON state block for the runtime.
func (r *Renderer) Render(ctx context.Context, result render.Result) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("page renderer: template renderer is nil")
	}

	opts := render.OptionsFrom(ctx)
	themed := buildTheme(opts.Theme)

	state := statePayload{Endpoint: r.endpoint, Field: result, Theme: themed}
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("page renderer: marshal state: %w", err)
	}

	resolve := r.assetResolver(opts.Theme)
	stylesheets := append([]string{resolve(themeAssetStylesheet, runtime.StylesheetName)}, result.Stylesheets...)
	scripts := append(append([]string(nil), result.Scripts...), resolve(themeAssetRuntimeScript, runtime.ScriptName))

	locale := opts.Locale
	if locale == "" {
		locale = "en"
	}

	data := map[string]any{
		"locale":      locale,
		"title":       result.Field,
		"field":       result.Field,
		"kind":        result.Kind,
		"reference":   result.Reference,
		"loaded":      result.Loaded,
		"html":        result.HTML,
		"state":       string(payload),
		"stylesheets": stylesheets,
		"scripts":     scripts,
	}
	if themed != nil {
		data["themeName"] = themed.Name
		data["themeVariant"] = themed.Variant
		data["cssVars"] = cssVarsStyle(themed.CSSVars)
	}

	rendered, err := r.templates.RenderTemplate(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("page renderer: render template: %w", err)
	}
	return []byte(rendered), nil
}

func buildTheme(cfg *theme.RendererConfig) *themePayload {
	if cfg == nil {
		return nil
	}
	return &themePayload{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
}

// assetResolver prefers the theme AssetURL for the logical asset key and
// falls back to the prefixed file name.
func (r *Renderer) assetResolver(cfg *theme.RendererConfig) func(key, name string) string {
	return func(key, name string) string {
		if cfg != nil && cfg.AssetURL != nil {
			if resolved := strings.TrimSpace(cfg.AssetURL(key)); resolved != "" {
				return resolved
			}
		}
		return expandAssetURL(r.assetURLPrefix, name)
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

func ensureTemplate(store fs.FS, name string) error {
	if store == nil {
		return fmt.Errorf("page renderer: template file system is nil")
	}
	if _, err := fs.Stat(store, name); err != nil {
		return fmt.Errorf("page renderer: template %q not found: %w", name, err)
	}
	return nil
}

func expandAssetURL(prefix, name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") ||
		strings.HasPrefix(name, "https://") ||
		strings.HasPrefix(name, "//") ||
		strings.HasPrefix(name, "/") {
		return name
	}
	if prefix == "" {
		return name
	}
	p := strings.TrimRight(prefix, "/")
	n := strings.TrimLeft(name, "/")
	if p == "" {
		return n
	}
	return p + "/" + n
}
