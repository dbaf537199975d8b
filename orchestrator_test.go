package refs

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-refs/pkg/accumulate"
	"github.com/goliatone/go-refs/pkg/dataprovider"
	"github.com/goliatone/go-refs/pkg/orchestrator"
)

func TestRenderHTML(t *testing.T) {
	definitions, err := LoadDefinitions(fstest.MapFS{
		"fields.yaml": {Data: []byte(`fields:
  posts.author:
    resource: posts
    source: author_id
    reference: users
    link: false
    child:
      component: text
      props:
        source: name
`)},
	})
	if err != nil {
		t.Fatalf("load definitions: %v", err)
	}

	provider := dataprovider.NewMemory(map[string][]Record{
		"users": {{"id": 7, "name": "Ada"}},
	})

	out, err := RenderHTML(context.Background(), "posts.author", Record{"author_id": 7},
		orchestrator.WithProvider(provider),
		orchestrator.WithDefinitions(definitions),
		orchestrator.WithAccumulatorOptions(accumulate.WithWindow(0)),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<span class="refs-text" data-source="name">Ada</span>`) {
		t.Fatalf("unexpected output: %s", out)
	}
}
