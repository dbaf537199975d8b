// Package accumulate batches "get many" requests. Identifiers requested for the
// same resource within a short window are merged into a single provider call
// and the results land in a shared store, so a page rendering fifty reference
// fields against the same resource issues one fetch instead of fifty.
package accumulate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-refs/pkg/dataprovider"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/store"
)

const (
	// DefaultWindow is how long identifiers are accumulated before dispatch.
	DefaultWindow = 10 * time.Millisecond
	// DefaultFetchTimeout bounds a single provider call.
	DefaultFetchTimeout = 5 * time.Second
)

// Option configures an Accumulator.
type Option func(*config)

type config struct {
	window       time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// WithWindow overrides the accumulation window. Zero dispatches on the next
// timer tick, which still merges calls issued back to back.
func WithWindow(window time.Duration) Option {
	return func(cfg *config) {
		if window >= 0 {
			cfg.window = window
		}
	}
}

// WithFetchTimeout overrides the per-dispatch provider timeout.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		if timeout > 0 {
			cfg.fetchTimeout = timeout
		}
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Accumulator merges identifier requests per resource.
type Accumulator struct {
	provider dataprovider.Provider
	store    *store.Store
	cfg      config

	mu       sync.Mutex
	pending  map[string]*batch
	inflight sync.WaitGroup
}

type batch struct {
	resource string
	ids      []record.Identifier
	keys     map[string]struct{}
	timer    *time.Timer
	done     chan struct{}
	err      error
}

// Ticket tracks the batch an Accumulate call joined.
type Ticket struct {
	done chan struct{}
	b    *batch
}

// Done closes once the batch settled (successfully or not).
func (t Ticket) Done() <-chan struct{} {
	return t.done
}

// Err reports the dispatch error. Only meaningful after Done closed.
func (t Ticket) Err() error {
	if t.b == nil {
		return nil
	}
	select {
	case <-t.done:
		return t.b.err
	default:
		return nil
	}
}

var settled = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// New constructs an Accumulator. A nil store gets a fresh one.
func New(provider dataprovider.Provider, st *store.Store, opts ...Option) (*Accumulator, error) {
	if provider == nil {
		return nil, fmt.Errorf("accumulate: provider is required")
	}
	if st == nil {
		st = store.New()
	}
	cfg := config{
		window:       DefaultWindow,
		fetchTimeout: DefaultFetchTimeout,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Accumulator{
		provider: provider,
		store:    st,
		cfg:      cfg,
		pending:  make(map[string]*batch),
	}, nil
}

// Store returns the store results are written to.
func (a *Accumulator) Store() *store.Store {
	return a.store
}

// Accumulate queues the identifiers not yet stored for resource. Identifiers
// already present resolve immediately.
func (a *Accumulator) Accumulate(resource string, ids []record.Identifier) Ticket {
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return Ticket{done: settled}
	}
	missing := a.store.Missing(resource, ids)
	if len(missing) == 0 {
		return Ticket{done: settled}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.pending[resource]
	if !ok {
		b = &batch{
			resource: resource,
			keys:     make(map[string]struct{}, len(missing)),
			done:     make(chan struct{}),
		}
		a.pending[resource] = b
		b.timer = time.AfterFunc(a.cfg.window, func() {
			if a.take(resource, b) {
				a.dispatch(b)
			}
		})
	}
	for _, id := range missing {
		key := record.Key(id)
		if _, dup := b.keys[key]; dup {
			continue
		}
		b.keys[key] = struct{}{}
		b.ids = append(b.ids, id)
	}
	return Ticket{done: b.done, b: b}
}

// Wait accumulates ids and blocks until their batch settles or ctx ends.
func (a *Accumulator) Wait(ctx context.Context, resource string, ids []record.Identifier) error {
	ticket := a.Accumulate(resource, ids)
	select {
	case <-ticket.Done():
		return ticket.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush dispatches every pending batch now and waits for them to settle.
func (a *Accumulator) Flush() {
	a.mu.Lock()
	batches := make([]*batch, 0, len(a.pending))
	for resource, b := range a.pending {
		b.timer.Stop()
		batches = append(batches, b)
		delete(a.pending, resource)
	}
	a.mu.Unlock()

	var wg sync.WaitGroup
	for _, b := range batches {
		a.inflight.Add(1)
		wg.Add(1)
		go func(b *batch) {
			defer wg.Done()
			a.dispatch(b)
		}(b)
	}
	wg.Wait()
}

// Close flushes pending batches and waits for in-flight dispatches.
func (a *Accumulator) Close() {
	a.Flush()
	a.inflight.Wait()
}

func (a *Accumulator) take(resource string, b *batch) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if current, ok := a.pending[resource]; !ok || current != b {
		return false
	}
	delete(a.pending, resource)
	a.inflight.Add(1)
	return true
}

func (a *Accumulator) dispatch(b *batch) {
	defer a.inflight.Done()
	defer close(b.done)

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.fetchTimeout)
	defer cancel()

	records, err := a.provider.GetMany(ctx, b.resource, b.ids)
	if err != nil {
		b.err = fmt.Errorf("accumulate: get many %s: %w", b.resource, err)
		a.cfg.logger.Warn("reference fetch failed",
			"resource", b.resource,
			"ids", len(b.ids),
			"error", err,
		)
		return
	}

	stored := a.store.Put(b.resource, records...)
	a.cfg.logger.Debug("reference batch dispatched",
		"resource", b.resource,
		"requested", len(b.ids),
		"resolved", stored,
	)
}
