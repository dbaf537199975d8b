package reference

import (
	"context"
	"sync/atomic"
)

type trackingKey struct{}

type tracking struct {
	progress atomic.Int64
	deferred atomic.Int64
}

// WithTracking returns a context that counts the progress indicators rendered
// under it, so callers can tell whether a field tree rendered fully.
func WithTracking(ctx context.Context) context.Context {
	return context.WithValue(ctx, trackingKey{}, &tracking{})
}

// Pending returns how many progress indicators were rendered under a
// WithTracking context, and how many of those were left for hydration because
// the fetch was deferred.
func Pending(ctx context.Context) (progress, deferred int) {
	t, ok := ctx.Value(trackingKey{}).(*tracking)
	if !ok {
		return 0, 0
	}
	return int(t.progress.Load()), int(t.deferred.Load())
}

func markProgress(ctx context.Context, deferred bool) {
	t, ok := ctx.Value(trackingKey{}).(*tracking)
	if !ok {
		return
	}
	t.progress.Add(1)
	if deferred {
		t.deferred.Add(1)
	}
}
