package orchestrator_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-refs/components/references"
)

func TestReferencesHandlerServesReferencedResources(t *testing.T) {
	o := newOrchestrator(t)
	h := o.ReferencesHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/references?resource=tags&ids=457,456", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := make([]string, 0, len(payload.Data))
	for _, row := range payload.Data {
		name, _ := row["name"].(string)
		got = append(got, name)
	}
	if diff := cmp.Diff([]string{"ui", "go"}, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	if _, ok := o.Store().Get("tags", "456"); !ok {
		t.Fatalf("expected lookup to populate the shared store")
	}
}

func TestReferencesHandlerRejectsUnreferencedResource(t *testing.T) {
	o := newOrchestrator(t)

	req := httptest.NewRequest(http.MethodGet, "/api/references?resource=comments&id=1", nil)
	rec := httptest.NewRecorder()
	o.ReferencesHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestReferencesComponentAllowList(t *testing.T) {
	o := newOrchestrator(t)

	got := o.ReferencesComponent().Options().Resources
	if diff := cmp.Diff([]string{"posts", "users", "ghosts", "tags"}, got); diff != "" {
		t.Fatalf("resources mismatch (-want +got):\n%s", diff)
	}

	override := o.ReferencesComponent(references.WithResources("users")).Options().Resources
	if diff := cmp.Diff([]string{"users"}, override); diff != "" {
		t.Fatalf("override mismatch (-want +got):\n%s", diff)
	}
}
