package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-refs/pkg/renderers/vanilla/components"
)

func TestLintCleanDefinitions(t *testing.T) {
	violations, err := lintPaths(context.Background(), []string{"testdata/good.yaml"}, components.NewDefaultRegistry())
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestLintReportsViolations(t *testing.T) {
	violations, err := lintPaths(context.Background(), []string{"testdata"}, components.NewDefaultRegistry())
	if err != nil {
		t.Fatalf("lint: %v", err)
	}

	files := make([]string, 0, len(violations))
	for _, v := range violations {
		files = append(files, v.file)
	}
	want := []string{"testdata/invalid.json", "testdata/openapi.yaml", "testdata/unknown_component.yaml"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("violating files mismatch (-want +got):\n%s", diff)
	}

	var out bytes.Buffer
	report(&out, violations)
	for _, fragment := range []string{
		"testdata/invalid.json: document -> ",
		"requires a source",
		`testdata/openapi.yaml: Post > properties.author_id -> unsupported x-reference key "colour"`,
		`testdata/unknown_component.yaml: posts.tags > child > children[0] -> unknown component "sparkline"`,
	} {
		if !strings.Contains(out.String(), fragment) {
			t.Fatalf("expected %q in report:\n%s", fragment, out.String())
		}
	}
}

func TestLintMissingPath(t *testing.T) {
	if _, err := lintPaths(context.Background(), []string{"testdata/nope"}, components.NewDefaultRegistry()); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestIsOpenAPI(t *testing.T) {
	if !isOpenAPI([]byte("openapi: 3.0.3\n")) {
		t.Fatalf("expected openapi detection")
	}
	if isOpenAPI([]byte(`{"fields": {}}`)) {
		t.Fatalf("definitions document detected as openapi")
	}
}
