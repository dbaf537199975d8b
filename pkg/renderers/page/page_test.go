package page_test

import (
	"context"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-refs/pkg/render"
	"github.com/goliatone/go-refs/pkg/renderers/page"
	"github.com/goliatone/go-refs/pkg/testsupport"
)

func sampleResult() render.Result {
	return render.Result{
		Field:       "posts.author",
		Kind:        "reference",
		Resource:    "posts",
		Reference:   "users",
		Loaded:      false,
		HTML:        `<div class="refs-progress" data-reference-pending="true"></div>`,
		Stylesheets: []string{"/static/refs/refs-vanilla.css"},
	}
}

func TestRenderer_RenderContract(t *testing.T) {
	renderer, err := page.New(page.WithAssetURLPrefix("/static/refs"))
	if err != nil {
		t.Fatalf("page.New: %v", err)
	}
	if got := renderer.Name(); got != "page" {
		t.Fatalf("unexpected renderer name: %s", got)
	}
	if got := renderer.ContentType(); got != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", got)
	}

	out, err := renderer.Render(context.Background(), sampleResult())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	testsupport.AssertContains(t, html,
		`<html lang="en">`,
		`<title>posts.author</title>`,
		`<link rel="stylesheet" href="/static/refs/refs.css">`,
		`<link rel="stylesheet" href="/static/refs/refs-vanilla.css">`,
		`data-field="posts.author"`,
		`data-loading="true"`,
		`<div class="refs-progress" data-reference-pending="true"></div>`,
		`<script id="refs-state" type="application/json">{"endpoint":"/api/references","field":{"field":"posts.author"`,
		`<script src="/static/refs/refs-runtime.js" defer></script>`,
	)
	testsupport.AssertNotContains(t, html, "data-theme=")
}

func TestRendererAppliesTheme(t *testing.T) {
	renderer, err := page.New(page.WithEndpoint("/refs/lookup"))
	if err != nil {
		t.Fatalf("page.New: %v", err)
	}

	ctx := render.WithOptions(context.Background(), render.RenderOptions{
		Locale: "es",
		Theme: &theme.RendererConfig{
			Theme:   "admin",
			Variant: "dark",
			CSSVars: map[string]string{"--refs-accent": "#0af"},
			AssetURL: func(key string) string {
				if key == "refs.runtime" {
					return "https://cdn.example.com/runtime.js"
				}
				return ""
			},
		},
	})

	out, err := renderer.Render(ctx, sampleResult())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertContains(t, string(out),
		`<html lang="es">`,
		`data-theme="admin"`,
		`data-theme-variant="dark"`,
		`<style>:root { --refs-accent: #0af; }</style>`,
		`"endpoint":"/refs/lookup"`,
		`<script src="https://cdn.example.com/runtime.js" defer></script>`,
		`<link rel="stylesheet" href="refs.css">`,
	)
}
