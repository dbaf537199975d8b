package reference

import (
	"context"
	"testing"

	"github.com/goliatone/go-refs/pkg/controller"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
)

func TestTrackingCountsProgress(t *testing.T) {
	r := newRenderer(t)
	ctx := WithTracking(context.Background())

	props := postField()
	props.Record = record.Record{"user_id": 99}
	if _, err := r.ReferenceField(ctx, props, (&probe{}).element(nil)); err != nil {
		t.Fatalf("render unresolved: %v", err)
	}
	if _, err := r.ReferenceFieldView(ctx, FieldViewProps{
		Children:  []render.Element{(&probe{}).element(nil)},
		State:     controller.LoadStatePending,
		Deferred:  true,
		Reference: "users",
	}); err != nil {
		t.Fatalf("render deferred: %v", err)
	}
	if _, err := r.ReferenceField(ctx, postField(), (&probe{}).element(nil)); err != nil {
		t.Fatalf("render loaded: %v", err)
	}

	progress, deferred := Pending(ctx)
	if progress != 2 || deferred != 1 {
		t.Fatalf("expected 2 progress / 1 deferred, got %d / %d", progress, deferred)
	}
}

func TestPendingWithoutTracking(t *testing.T) {
	if progress, deferred := Pending(context.Background()); progress != 0 || deferred != 0 {
		t.Fatalf("expected zero counts, got %d / %d", progress, deferred)
	}
}
