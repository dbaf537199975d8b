package references

import (
	"context"
	"net/http"
	"strings"

	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/store"
)

const (
	defaultRoutePath = "/api/references"
	defaultMaxIDs    = 100
	maxIDsCeiling    = 500
)

// Fetcher loads identifiers into its store. *accumulate.Accumulator
// satisfies it.
type Fetcher interface {
	Wait(ctx context.Context, resource string, ids []record.Identifier) error
	Store() *store.Store
}

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath     string
	ResourceParam string
	IDParam       string
	IDsParam      string
	// MaxIDs caps the identifiers accepted per request; extra ones are
	// dropped. Clamped to 1..500.
	MaxIDs int
	Guard  GuardFunc
	// Resources is the allow list. Nil allows every resource.
	Resources []string

	Fetcher Fetcher
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:     defaultRoutePath,
		ResourceParam: "resource",
		IDParam:       "id",
		IDsParam:      "ids",
		MaxIDs:        defaultMaxIDs,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	opts.MaxIDs = clampMaxIDs(opts.MaxIDs)
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.ResourceParam == "" {
		opts.ResourceParam = "resource"
	}
	if opts.IDParam == "" {
		opts.IDParam = "id"
	}
	if opts.IDsParam == "" {
		opts.IDsParam = "ids"
	}
	if opts.Resources != nil {
		opts.Resources = append([]string{}, opts.Resources...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithResourceParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ResourceParam = name
	}
}

func WithIDParams(single, list string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.IDParam = single
		o.IDsParam = list
	}
}

func WithMaxIDs(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxIDs = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithResources restricts the handler to the listed resources.
func WithResources(resources ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Resources = append([]string{}, resources...)
	}
}

func WithFetcher(fetcher Fetcher) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Fetcher = fetcher
	}
}

func clampMaxIDs(limit int) int {
	if limit <= 0 {
		return defaultMaxIDs
	}
	if limit > maxIDsCeiling {
		return maxIDsCeiling
	}
	return limit
}

func (o Options) allows(resource string) bool {
	if o.Resources == nil {
		return true
	}
	for _, candidate := range o.Resources {
		if strings.EqualFold(strings.TrimSpace(candidate), resource) {
			return true
		}
	}
	return false
}
