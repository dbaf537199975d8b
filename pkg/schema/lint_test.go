package schema

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestLintOpenAPICleanDocument(t *testing.T) {
	raw, err := os.ReadFile("testdata/openapi.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	issues, err := LintOpenAPI(context.Background(), raw)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestLintOpenAPIReportsIssues(t *testing.T) {
	raw, err := os.ReadFile("testdata/openapi_lint.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	issues, err := LintOpenAPI(context.Background(), raw)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}

	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, issue.String())
	}
	joined := strings.Join(lines, "\n")

	for _, want := range []string{
		`Post > properties.author_id -> unsupported x-relationships key "flavour"`,
		`Post > properties.author_id -> unsupported x-reference key "colour"`,
		`Post > properties.author_id -> x-reference key "label" must be a string (got float64)`,
		`Post > properties.author_id -> controller: unknown link type "sideways"`,
		`Post > properties.orphan -> x-reference without x-relationships is ignored`,
		`Post > properties.broken -> x-relationships requires a target`,
		`document -> `,
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected issue %q in:\n%s", want, joined)
		}
	}
	if issues[0].Location != "Post > properties.author_id" {
		t.Fatalf("expected issues sorted by location, got %v", issues[0])
	}
}

func TestLintOpenAPIRejectsEmptyPayload(t *testing.T) {
	if _, err := LintOpenAPI(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
