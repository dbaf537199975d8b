package dataprovider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-refs/pkg/record"
)

func TestMemoryGetMany(t *testing.T) {
	provider := NewMemory(map[string][]record.Record{
		"users": {
			{"id": 1, "name": "Ada"},
			{"id": 2, "name": "Grace"},
		},
	})

	records, err := provider.GetMany(context.Background(), "users", []record.Identifier{"2", 3, 1})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %#v", len(records), records)
	}
	if records[0]["name"] != "Grace" || records[1]["name"] != "Ada" {
		t.Fatalf("expected request order, got %#v", records)
	}
}

func TestMemoryUnknownResource(t *testing.T) {
	provider := NewMemory(nil)
	_, err := provider.GetMany(context.Background(), "users", []record.Identifier{1})
	if !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestMemoryHonoursContext(t *testing.T) {
	provider := NewMemory(map[string][]record.Record{"users": {{"id": 1}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.GetMany(ctx, "users", []record.Identifier{1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDecodeFixtures(t *testing.T) {
	memory, err := DecodeFixtures(strings.NewReader(`{"resources":{"users":[{"id":1,"name":"Ada"},{"id":"2","name":"Grace"}]}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got, err := memory.GetMany(context.Background(), "users", []record.Identifier{"1", 2})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	names := make([]string, 0, len(got))
	for _, rec := range got {
		names = append(names, rec.String("name"))
	}
	if diff := cmp.Diff([]string{"Ada", "Grace"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFixturesRejectsEmptyDocument(t *testing.T) {
	if _, err := DecodeFixtures(strings.NewReader(`{"resources":{}}`)); err == nil {
		t.Fatalf("expected error for empty fixtures")
	}
	if _, err := DecodeFixtures(strings.NewReader(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
