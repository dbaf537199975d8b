// Package controller resolves reference identifiers against a foreign resource
// and reports the loading state the reference views branch on.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-refs/pkg/accumulate"
	"github.com/goliatone/go-refs/pkg/record"
)

// LoadState is the tri-state loading signal of a reference.
type LoadState int

const (
	// LoadStateIdle means no fetch was attempted.
	LoadStateIdle LoadState = iota
	// LoadStatePending means the fetch is in flight or did not resolve.
	LoadStatePending
	// LoadStateLoaded means the reference resolved.
	LoadStateLoaded
)

// Loaded reports whether the views should render the loaded branch.
func (s LoadState) Loaded() bool {
	return s == LoadStateLoaded
}

func (s LoadState) String() string {
	switch s {
	case LoadStatePending:
		return "pending"
	case LoadStateLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// Fetcher requests ids of resource and blocks until they settle or ctx ends.
type Fetcher interface {
	Wait(ctx context.Context, resource string, ids []record.Identifier) error
}

// Reader reads fetched records.
type Reader interface {
	Get(resource string, id record.Identifier) (record.Record, bool)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller resolves single and array references.
type Controller struct {
	fetcher Fetcher
	reader  Reader
	logger  *slog.Logger
}

// New constructs a Controller.
func New(fetcher Fetcher, reader Reader, opts ...Option) (*Controller, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("controller: fetcher is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("controller: reader is required")
	}
	c := &Controller{
		fetcher: fetcher,
		reader:  reader,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// FromAccumulator wires a Controller to an accumulator and its store.
func FromAccumulator(acc *accumulate.Accumulator, opts ...Option) (*Controller, error) {
	if acc == nil {
		return nil, fmt.Errorf("controller: accumulator is required")
	}
	return New(acc, acc.Store(), opts...)
}

// ReferenceInput describes a single reference to resolve.
type ReferenceInput struct {
	Record     record.Record
	Source     string
	Reference  string
	Resource   string
	BasePath   string
	LinkType   LinkType
	AllowEmpty bool
}

// ReferenceState is the outcome of a single reference.
type ReferenceState struct {
	State    LoadState
	ID       record.Identifier
	Record   record.Record
	LinkPath string
	// Deferred is set when ctx ended before the fetch settled; the view marks
	// its progress indicator for client-side resolution.
	Deferred bool
}

// Reference resolves the identifier at in.Source.
func (c *Controller) Reference(ctx context.Context, in ReferenceInput) ReferenceState {
	var out ReferenceState

	id, ok := in.Record.Get(in.Source)
	if !ok || record.Key(id) == "" {
		if in.AllowEmpty {
			out.State = LoadStateLoaded
		}
		return out
	}
	out.ID = id
	out.LinkPath = ResourceLinkPath(in.BasePath, in.Resource, in.Reference, id, in.LinkType)

	out.Deferred = c.fetch(ctx, in.Reference, []record.Identifier{id})

	if rec, found := c.reader.Get(in.Reference, id); found {
		out.Record = rec
		out.State = LoadStateLoaded
		return out
	}
	if in.AllowEmpty {
		out.State = LoadStateLoaded
		return out
	}
	out.State = LoadStatePending
	return out
}

// ArrayInput describes an array reference to resolve.
type ArrayInput struct {
	Record    record.Record
	Source    string
	Reference string
	Resource  string
	BasePath  string
}

// ArrayState is the outcome of an array reference. Data is keyed by
// record.Key of each identifier.
type ArrayState struct {
	State     LoadState
	IDs       []record.Identifier
	Data      map[string]record.Record
	BasePath  string
	Deferred  bool
	Resolved  int
	Requested int
}

// ReferenceArray resolves the identifier list at in.Source. The list is loaded
// once every identifier resolved, or once the fetch settled with at least one
// record. It stays pending while deferred or when nothing resolved.
func (c *Controller) ReferenceArray(ctx context.Context, in ArrayInput) ArrayState {
	out := ArrayState{
		IDs:      []record.Identifier{},
		Data:     map[string]record.Record{},
		BasePath: ReferenceBasePath(in.BasePath, in.Resource, in.Reference),
	}

	if value, ok := in.Record.Get(in.Source); ok {
		if ids := record.Identifiers(value); ids != nil {
			out.IDs = ids
		}
	}
	out.Requested = len(out.IDs)
	if len(out.IDs) == 0 {
		out.State = LoadStateLoaded
		return out
	}

	out.Deferred = c.fetch(ctx, in.Reference, out.IDs)

	for _, id := range out.IDs {
		if rec, found := c.reader.Get(in.Reference, id); found {
			out.Data[record.Key(id)] = rec
		}
	}
	out.Resolved = len(out.Data)
	switch {
	case out.Resolved == countKeys(out.IDs):
		out.State = LoadStateLoaded
	case out.Resolved > 0 && !out.Deferred:
		// The batch settled without some records; render what exists.
		out.State = LoadStateLoaded
	default:
		out.State = LoadStatePending
	}
	return out
}

// fetch waits for ids and reports whether ctx ended first. Other failures are
// logged and only show up as unresolved records.
func (c *Controller) fetch(ctx context.Context, resource string, ids []record.Identifier) bool {
	if strings.TrimSpace(resource) == "" {
		return false
	}
	err := c.fetcher.Wait(ctx, resource, ids)
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if ctx.Err() != nil {
			return true
		}
	}
	c.logger.Warn("reference fetch failed",
		"resource", resource,
		"ids", record.Keys(ids),
		"error", err,
	)
	return false
}

func countKeys(ids []record.Identifier) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[record.Key(id)] = struct{}{}
	}
	return len(seen)
}
