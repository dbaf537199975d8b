package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-refs/pkg/accumulate"
	"github.com/goliatone/go-refs/pkg/dataprovider"
	"github.com/goliatone/go-refs/pkg/orchestrator"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
	"github.com/goliatone/go-refs/pkg/schema"
	"github.com/goliatone/go-refs/pkg/testsupport"
)

func blogProvider() *dataprovider.Memory {
	return dataprovider.NewMemory(map[string][]record.Record{
		"users": {{"id": 7, "name": "Ada"}},
		"posts": {{"id": 1, "author_id": 7, "tag_ids": []any{456, 457}}},
		"tags": {
			{"id": 456, "name": "go"},
			{"id": 457, "name": "ui"},
		},
	})
}

func newOrchestrator(t *testing.T, opts ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()
	base := []orchestrator.Option{
		orchestrator.WithProvider(blogProvider()),
		orchestrator.WithDefinitionsFS(os.DirFS("testdata/definitions")),
		orchestrator.WithAccumulatorOptions(accumulate.WithWindow(0)),
	}
	o := orchestrator.New(append(base, opts...)...)
	if err := o.Err(); err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	t.Cleanup(o.Close)
	return o
}

func TestRenderFieldReference(t *testing.T) {
	o := newOrchestrator(t)

	result, err := o.RenderField(context.Background(), orchestrator.Request{
		Field:  "posts.author",
		Record: record.Record{"id": 1, "author_id": 7},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}

	want := `<a href="/users/7" class="author" onclick="event.stopPropagation()" data-stop-propagation="true">` +
		`<span class="refs-text refs-link" data-source="name">Ada</span></a>`
	if result.HTML != want {
		t.Fatalf("html mismatch\nwant: %s\n got: %s", want, result.HTML)
	}
	if !result.Loaded {
		t.Fatalf("expected loaded result")
	}
	if result.Resource != "posts" || result.Reference != "users" || result.Kind != "reference" {
		t.Fatalf("unexpected result metadata: %+v", result)
	}
	if diff := cmp.Diff([]string{"/static/refs/refs-vanilla.css"}, result.Stylesheets); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFieldReferenceArray(t *testing.T) {
	o := newOrchestrator(t)

	result, err := o.RenderField(context.Background(), orchestrator.Request{
		Field:  "posts.tags",
		Record: record.Record{"id": 1, "tag_ids": []any{457, 456}},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}

	testsupport.AssertContains(t, result.HTML,
		`<th>Tag</th>`,
		`<tr data-id="457">`,
		`<span class="refs-text" data-source="name">ui</span>`,
	)
	if strings.Index(result.HTML, `data-id="457"`) > strings.Index(result.HTML, `data-id="456"`) {
		t.Fatalf("rows should follow the identifier order: %s", result.HTML)
	}
	if diff := cmp.Diff([]string{"/static/refs/refs-datagrid.js"}, result.Scripts); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFieldNestedReference(t *testing.T) {
	o := newOrchestrator(t)

	result, err := o.RenderField(context.Background(), orchestrator.Request{
		Field:  "comments.post_author",
		Record: record.Record{"id": 3, "post_id": 1},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}

	want := `<a href="/users/7/show" onclick="event.stopPropagation()" data-stop-propagation="true">` +
		`<span class="refs-chip refs-link" data-chip data-source="name">Ada</span></a>`
	if result.HTML != want {
		t.Fatalf("html mismatch\nwant: %s\n got: %s", want, result.HTML)
	}
}

func TestRenderFieldUnresolvedIsNotLoaded(t *testing.T) {
	o := newOrchestrator(t)

	result, err := o.RenderField(context.Background(), orchestrator.Request{
		Field:  "posts.ghost",
		Record: record.Record{"id": 1, "ghost_id": 5},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if result.Loaded {
		t.Fatalf("expected pending result")
	}
	testsupport.AssertContains(t, result.HTML, `role="progressbar"`)
}

func TestRenderOutputs(t *testing.T) {
	o := newOrchestrator(t)
	req := orchestrator.Request{
		Field:  "posts.author",
		Record: record.Record{"id": 1, "author_id": 7},
	}

	html, err := o.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	testsupport.AssertContains(t, string(html),
		`<link rel="stylesheet" href="/static/refs/refs-vanilla.css">`,
		`<div class="refs-field" data-field="posts.author" data-kind="reference" data-reference="users">`,
	)

	req.Renderer = "json"
	payload, err := o.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	var decoded render.Result
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.Field != "posts.author" || !decoded.Loaded {
		t.Fatalf("unexpected json result: %+v", decoded)
	}

	req.Renderer = "page"
	doc, err := o.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	testsupport.AssertContains(t, string(doc), "<!DOCTYPE html>", `<script id="refs-state"`)

	req.Renderer = "pdf"
	if _, err := o.Render(context.Background(), req); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestRenderFieldErrors(t *testing.T) {
	o := newOrchestrator(t)

	if _, err := o.RenderField(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error for missing field")
	}
	if _, err := o.RenderField(context.Background(), orchestrator.Request{Field: "posts.missing"}); err == nil {
		t.Fatalf("expected error for unknown field")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.RenderField(ctx, orchestrator.Request{Field: "posts.author"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestConfigurationErrorSurfaces(t *testing.T) {
	set, err := schema.Parse([]byte(`{"fields":{"posts.author":{"source":"author_id","reference":"users","child":{"component":"single_field_list"}}}}`), "inline.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	o := orchestrator.New(
		orchestrator.WithProvider(blogProvider()),
		orchestrator.WithDefinitions(set),
		orchestrator.WithAccumulatorOptions(accumulate.WithWindow(0)),
	)
	t.Cleanup(o.Close)

	_, err = o.RenderField(context.Background(), orchestrator.Request{
		Field:  "posts.author",
		Record: record.Record{"author_id": 7},
	})
	if !errors.Is(err, render.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewRequiresProvider(t *testing.T) {
	o := orchestrator.New()
	if o.Err() == nil {
		t.Fatalf("expected error without provider")
	}
	if _, err := o.Render(context.Background(), orchestrator.Request{Field: "x"}); err == nil {
		t.Fatalf("expected render to report the construction error")
	}
}

func TestTransformerAdjustsDefinition(t *testing.T) {
	transformer, err := orchestrator.NewJSONPresetTransformer([]byte(`{"fields":{"posts.author":{"link":false,"className":"byline"}}}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}
	o := newOrchestrator(t, orchestrator.WithTransformer(transformer))

	result, err := o.RenderField(context.Background(), orchestrator.Request{
		Field:  "posts.author",
		Record: record.Record{"author_id": 7},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if want := `<span class="refs-text" data-source="name">Ada</span>`; result.HTML != want {
		t.Fatalf("html mismatch\nwant: %s\n got: %s", want, result.HTML)
	}

	def, _ := o.Definitions().Definition("posts.author")
	if def.ClassName != "author" {
		t.Fatalf("stored definition mutated: %+v", def)
	}
}

func TestTransformerFuncError(t *testing.T) {
	boom := errors.New("boom")
	o := newOrchestrator(t, orchestrator.WithTransformer(orchestrator.TransformerFunc(func(context.Context, *schema.Definition) error {
		return boom
	})))
	_, err := o.RenderField(context.Background(), orchestrator.Request{Field: "posts.author"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestJSONPresetTransformerRejectsBadLink(t *testing.T) {
	if _, err := orchestrator.NewJSONPresetTransformer([]byte(`{"fields":{"a":{"link":"sideways"}}}`)); err == nil {
		t.Fatalf("expected error for unknown link")
	}
	if _, err := orchestrator.NewJSONPresetTransformer(nil); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestTranslatorFallback(t *testing.T) {
	translator := render.TranslatorFunc(func(_ string, key string, _ ...any) (string, error) {
		if key == "refs.loading" {
			return "Cargando", nil
		}
		return "", errors.New("missing")
	})
	o := newOrchestrator(t, orchestrator.WithTranslator(translator))

	result, err := o.RenderField(context.Background(), orchestrator.Request{
		Field:  "posts.ghost",
		Record: record.Record{"ghost_id": 5},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	testsupport.AssertContains(t, result.HTML, `aria-label="Cargando"`)
}

type stubThemeSelector struct {
	selection *theme.Selection
	calls     []string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, name+"/"+variant)
	return s.selection, nil
}

func TestThemeSelectorConfiguresViews(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"reference-link-class": "acme-link"},
			Assets: theme.Assets{
				Prefix: "/assets/acme",
				Files:  map[string]string{"refs.runtime": "runtime.js"},
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"reference-progress-class": "acme-spinner"}},
			},
		},
	}}
	o := newOrchestrator(t, orchestrator.WithThemeSelector(selector))

	doc, err := o.Render(context.Background(), orchestrator.Request{
		Field:        "posts.author",
		Record:       record.Record{"author_id": 7},
		Renderer:     "page",
		ThemeName:    "acme",
		ThemeVariant: "dark",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertContains(t, string(doc),
		`<span class="refs-text acme-link" data-source="name">Ada</span>`,
		`data-theme="acme"`,
		`<script src="/assets/acme/runtime.js" defer></script>`,
		`--reference-link-class: acme-link;`,
	)
	if diff := cmp.Diff([]string{"acme/dark"}, selector.calls); diff != "" {
		t.Fatalf("selector calls mismatch (-want +got):\n%s", diff)
	}

	pending, err := o.RenderField(context.Background(), orchestrator.Request{
		Field:        "posts.ghost",
		Record:       record.Record{"ghost_id": 5},
		ThemeVariant: "dark",
	})
	if err != nil {
		t.Fatalf("render pending: %v", err)
	}
	testsupport.AssertContains(t, pending.HTML, `class="acme-spinner"`)
}

type countingProvider struct {
	mu    sync.Mutex
	next  dataprovider.Provider
	calls map[string][][]string
}

func (p *countingProvider) GetMany(ctx context.Context, resource string, ids []record.Identifier) ([]record.Record, error) {
	p.mu.Lock()
	keys := record.Keys(ids)
	slices.Sort(keys)
	p.calls[resource] = append(p.calls[resource], keys)
	p.mu.Unlock()
	return p.next.GetMany(ctx, resource, ids)
}

func TestRenderFieldBatchesNestedReferencesAcrossRows(t *testing.T) {
	set, err := schema.Parse([]byte(`{"fields":{"posts.tag_owners":{
		"kind":"reference_array","resource":"posts","source":"tag_ids","reference":"tags",
		"child":{"component":"datagrid","children":[
			{"component":"text","props":{"source":"name"}},
			{"component":"reference","props":{"source":"owner_id","reference":"users"},
			 "children":[{"component":"chip","props":{"source":"name"}}]}
		]}}}}`), "inline.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	provider := &countingProvider{
		next: dataprovider.NewMemory(map[string][]record.Record{
			"users": {{"id": 7, "name": "Ada"}, {"id": 8, "name": "Grace"}, {"id": 9, "name": "Linus"}},
			"tags": {
				{"id": 456, "name": "go", "owner_id": 7},
				{"id": 457, "name": "ui", "owner_id": 8},
				{"id": 458, "name": "db", "owner_id": 9},
			},
		}),
		calls: map[string][][]string{},
	}
	o := orchestrator.New(
		orchestrator.WithProvider(provider),
		orchestrator.WithDefinitions(set),
		orchestrator.WithAccumulatorOptions(accumulate.WithWindow(50*time.Millisecond)),
	)
	if err := o.Err(); err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	t.Cleanup(o.Close)

	result, err := o.RenderField(context.Background(), orchestrator.Request{
		Field:  "posts.tag_owners",
		Record: record.Record{"id": 1, "tag_ids": []any{458, 456, 457}},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if !result.Loaded {
		t.Fatalf("expected loaded result: %s", result.HTML)
	}

	want := map[string][][]string{
		"tags":  {{"456", "457", "458"}},
		"users": {{"7", "8", "9"}},
	}
	if diff := cmp.Diff(want, provider.calls); diff != "" {
		t.Fatalf("provider calls mismatch (-want +got):\n%s", diff)
	}

	linus := strings.Index(result.HTML, ">Linus</span>")
	ada := strings.Index(result.HTML, ">Ada</span>")
	grace := strings.Index(result.HTML, ">Grace</span>")
	if linus < 0 || !(linus < ada && ada < grace) {
		t.Fatalf("rows should follow the identifier order: %s", result.HTML)
	}
}
