// Package refs renders reference fields: a record field holding the
// identifier of a record in another resource (or a list of identifiers) is
// resolved through a data provider and displayed with a child component,
// linked to the referenced record.
package refs

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-refs/pkg/orchestrator"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
	"github.com/goliatone/go-refs/pkg/schema"
)

// RenderOptions describes per-request locale, translator and theme.
type RenderOptions = render.RenderOptions

// Record aliases record.Record.
type Record = record.Record

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders one field as an HTML fragment using a throwaway
// orchestrator. Long-lived callers should keep an orchestrator so fetched
// records are shared between requests.
func RenderHTML(ctx context.Context, field string, rec Record, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	defer gen.Close()
	return gen.Render(ctx, orchestrator.Request{
		Field:    field,
		Record:   rec,
		Renderer: "html",
	})
}

// LoadDefinitions parses JSON/YAML field definitions from fsys.
func LoadDefinitions(fsys fs.FS) (*schema.Set, error) {
	return schema.LoadFS(fsys)
}

// DefinitionsFromOpenAPI derives field definitions from the x-relationships
// extensions of an OpenAPI document.
func DefinitionsFromOpenAPI(ctx context.Context, data []byte) (*schema.Set, error) {
	return schema.FromOpenAPI(ctx, data)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
