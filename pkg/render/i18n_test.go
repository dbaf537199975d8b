package render

import (
	"context"
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"
)

func spanish() Translator {
	return TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if locale == "es" && key == "refs.progress.loading" {
			return "Cargando", nil
		}
		return "", errors.New("missing")
	})
}

func TestRenderOptionsTranslate(t *testing.T) {
	opts := RenderOptions{Locale: "es", Translator: spanish()}

	if got := opts.Translate("refs.progress.loading", "Loading"); got != "Cargando" {
		t.Fatalf("expected translation, got %q", got)
	}
	if got := opts.Translate("refs.other", "Fallback"); got != "Fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := opts.Translate("refs.other", ""); got != "refs.other" {
		t.Fatalf("expected key when fallback is empty, got %q", got)
	}
	if got := (RenderOptions{}).Translate("refs.progress.loading", "Loading"); got != "Loading" {
		t.Fatalf("expected fallback without translator, got %q", got)
	}

	custom := RenderOptions{
		OnMissing: func(_ string, key string, _ []any, err error) string {
			if errors.Is(err, ErrMissingTranslator) {
				return "!" + key
			}
			return key
		},
	}
	if got := custom.Translate("refs.x", "X"); got != "!refs.x" {
		t.Fatalf("expected custom missing handler, got %q", got)
	}
}

func TestOptionsContextRoundTrip(t *testing.T) {
	if got := OptionsFrom(context.Background()); got.Locale != "" {
		t.Fatalf("expected zero options, got %+v", got)
	}
	ctx := WithOptions(context.Background(), RenderOptions{Locale: "es"})
	if got := OptionsFrom(ctx).Locale; got != "es" {
		t.Fatalf("expected locale es, got %q", got)
	}
}

func TestRenderOptionsThemeLookups(t *testing.T) {
	opts := RenderOptions{Theme: &theme.RendererConfig{
		Partials: map[string]string{"refs.link": "themes/acme/link.tmpl"},
		Tokens:   map[string]string{"refs.link.class": "acme-link"},
	}}

	if got := opts.Partial("refs.link", "templates/link.tmpl"); got != "themes/acme/link.tmpl" {
		t.Fatalf("unexpected partial %q", got)
	}
	if got := opts.Partial("refs.progress", "templates/progress.tmpl"); got != "templates/progress.tmpl" {
		t.Fatalf("unexpected fallback partial %q", got)
	}
	if got := opts.Token("refs.link.class", "refs-link"); got != "acme-link" {
		t.Fatalf("unexpected token %q", got)
	}
	if got := (RenderOptions{}).Token("refs.link.class", "refs-link"); got != "refs-link" {
		t.Fatalf("unexpected fallback token %q", got)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := TemplateI18nFuncs(spanish(), TemplateI18nConfig{})

	translate, ok := funcs["translate"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper has unexpected type %T", funcs["translate"])
	}
	if got := translate("es", "refs.progress.loading"); got != "Cargando" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := translate(map[string]any{"locale": "es"}, "refs.progress.loading"); got != "Cargando" {
		t.Fatalf("expected locale from map, got %q", got)
	}
	if got := translate("en", "refs.progress.loading", map[string]any{"default": "Loading"}); got != "Loading" {
		t.Fatalf("expected default param, got %q", got)
	}
	if got := translate("es", " "); got != "" {
		t.Fatalf("expected empty output for blank key, got %q", got)
	}

	current, ok := funcs["current_locale"].(func(any) string)
	if !ok {
		t.Fatalf("current_locale helper has unexpected type %T", funcs["current_locale"])
	}
	if got := current(map[string]string{"locale": "fr"}); got != "fr" {
		t.Fatalf("unexpected locale %q", got)
	}

	renamed := TemplateI18nFuncs(nil, TemplateI18nConfig{FuncName: "t"})
	tfn := renamed["t"].(func(any, string, ...any) string)
	if got := tfn("es", "refs.key"); got != "refs.key" {
		t.Fatalf("expected key without translator, got %q", got)
	}
}
