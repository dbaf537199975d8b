package orchestrator

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-refs/pkg/reference"
	"github.com/goliatone/go-refs/pkg/render"
)

// WithThemeSelector resolves a go-theme selection per request (see
// Request.ThemeName) into the renderer configuration read by the reference
// views, components and page output.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks sets partials used when the selected theme does not
// override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		if len(fallbacks) == 0 {
			return
		}
		if o.themeFallbacks == nil {
			o.themeFallbacks = make(map[string]string, len(fallbacks))
		}
		for key, value := range fallbacks {
			o.themeFallbacks[key] = value
		}
	}
}

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		reference.PartialLink:     "templates/link.tmpl",
		reference.PartialProgress: "templates/progress.tmpl",
	}
}

// resolveTheme fills opts.Theme from the selector unless the caller supplied
// a configuration already.
func (o *Orchestrator) resolveTheme(opts render.RenderOptions, name, variant string) (render.RenderOptions, error) {
	if opts.Theme != nil || o.themeSelector == nil {
		return opts, nil
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return opts, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return opts, nil
	}
	opts.Theme = rendererConfig(selection, o.themeFallbacks)
	return opts, nil
}

func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	partials := make(map[string]string)
	for key, value := range defaultThemeFallbacks() {
		partials[key] = value
	}
	for key, value := range fallbacks {
		partials[key] = value
	}
	tokens := make(map[string]string)

	var (
		prefix string
		files  = make(map[string]string)
	)
	if manifest := selection.Manifest; manifest != nil {
		mergeInto(partials, manifest.Templates)
		mergeInto(tokens, manifest.Tokens)
		prefix = manifest.Assets.Prefix
		mergeInto(files, manifest.Assets.Files)

		if v, ok := manifest.Variants[selection.Variant]; ok {
			mergeInto(partials, v.Templates)
			mergeInto(tokens, v.Tokens)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
			mergeInto(files, v.Assets.Files)
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
