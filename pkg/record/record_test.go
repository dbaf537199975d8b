package record

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKey_NumbersAndStringsShareKeys(t *testing.T) {
	cases := []struct {
		in   Identifier
		want string
	}{
		{456, "456"},
		{int64(456), "456"},
		{456.0, "456"},
		{"456", "456"},
		{" 456 ", "456"},
		{json.Number("456"), "456"},
		{1.5, "1.5"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := Key(tc.in); got != tc.want {
			t.Fatalf("Key(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRecordGet_DottedPaths(t *testing.T) {
	rec := Record{
		"id":        1,
		"author_id": 7,
		"author": map[string]any{
			"profile": map[string]any{"name": "Ada"},
		},
		"tags":      []any{"a", "b"},
		"empty":     nil,
		"flat.name": "kept",
	}

	if got, ok := rec.Get("author_id"); !ok || got != 7 {
		t.Fatalf("expected author_id=7, got %v (%v)", got, ok)
	}
	if got := rec.String("author.profile.name"); got != "Ada" {
		t.Fatalf("expected nested lookup, got %q", got)
	}
	if got := rec.String("tags.1"); got != "b" {
		t.Fatalf("expected index lookup, got %q", got)
	}
	if got := rec.String("flat.name"); got != "kept" {
		t.Fatalf("expected literal dotted key to win, got %q", got)
	}
	if _, ok := rec.Get("empty"); ok {
		t.Fatalf("expected nil value to report missing")
	}
	if _, ok := rec.Get("author.missing"); ok {
		t.Fatalf("expected missing segment to report missing")
	}
	if _, ok := Record(nil).Get("id"); ok {
		t.Fatalf("expected nil record to report missing")
	}
}

func TestIdentifiers_Coercion(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want []Identifier
	}{
		{"nil", nil, nil},
		{"any slice", []any{456, nil, "457"}, []Identifier{456, "457"}},
		{"strings", []string{"a", "", "b"}, []Identifier{"a", "b"}},
		{"ints", []int{1, 2}, []Identifier{1, 2}},
		{"floats", []float64{1, 2}, []Identifier{1.0, 2.0}},
		{"int64 via reflection", []int64{3}, []Identifier{int64(3)}},
		{"scalar", 9, []Identifier{9}},
		{"empty string scalar", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Identifiers(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordID(t *testing.T) {
	if _, ok := (Record{"name": "x"}).ID(); ok {
		t.Fatalf("expected missing id")
	}
	if key := (Record{"id": 12.0}).Key(); key != "12" {
		t.Fatalf("expected canonical key 12, got %q", key)
	}
}
