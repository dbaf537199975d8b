package render

import (
	"context"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that components can use to customise
// their output without threading extra props through every element.
type RenderOptions struct {
	// Locale selects the translation locale for choice labels and chrome
	// strings such as the progress indicator label.
	Locale string
	// Translator resolves translation keys. Nil disables translation and
	// OnMissing decides the fallback.
	Translator Translator
	// OnMissing controls the string returned when a translation is missing.
	OnMissing MissingTranslationHandler
	// Theme carries go-theme partial overrides and tokens. Components resolve
	// template names and link/progress classes through it.
	Theme *theme.RendererConfig
}

type optionsKey struct{}

// WithOptions stores opts on ctx for nested component renders.
func WithOptions(ctx context.Context, opts RenderOptions) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, optionsKey{}, opts)
}

// OptionsFrom returns the options stored on ctx, or the zero value.
func OptionsFrom(ctx context.Context) RenderOptions {
	if ctx == nil {
		return RenderOptions{}
	}
	opts, _ := ctx.Value(optionsKey{}).(RenderOptions)
	return opts
}

// Partial resolves a theme partial override for key, falling back to
// templateName.
func (o RenderOptions) Partial(key, templateName string) string {
	if o.Theme == nil || len(o.Theme.Partials) == 0 {
		return templateName
	}
	if candidate := o.Theme.Partials[key]; candidate != "" {
		return candidate
	}
	return templateName
}

// Token returns a theme token or fallback.
func (o RenderOptions) Token(key, fallback string) string {
	if o.Theme == nil || len(o.Theme.Tokens) == 0 {
		return fallback
	}
	if value := o.Theme.Tokens[key]; value != "" {
		return value
	}
	return fallback
}

// Translate resolves key for the configured locale, falling back to fallback
// (or the key itself) through OnMissing.
func (o RenderOptions) Translate(key, fallback string, params ...any) string {
	return translate(o.Locale, key, fallback, o.Translator, o.OnMissing, params...)
}
