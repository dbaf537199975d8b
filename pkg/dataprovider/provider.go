// Package dataprovider defines the "get many" contract the reference
// controllers fetch through, plus an in-memory implementation.
package dataprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-refs/pkg/record"
)

// ErrUnknownResource is returned when a provider does not serve a resource.
var ErrUnknownResource = errors.New("dataprovider: unknown resource")

// Provider fetches the records of resource matching ids. Missing identifiers
// are simply absent from the result; order is not guaranteed.
type Provider interface {
	GetMany(ctx context.Context, resource string, ids []record.Identifier) ([]record.Record, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, resource string, ids []record.Identifier) ([]record.Record, error)

// GetMany implements Provider.
func (fn ProviderFunc) GetMany(ctx context.Context, resource string, ids []record.Identifier) ([]record.Record, error) {
	return fn(ctx, resource, ids)
}

// Memory serves records held in memory, keyed by resource.
type Memory struct {
	mu        sync.RWMutex
	resources map[string]map[string]record.Record
}

// NewMemory builds a memory provider seeded with fixtures.
func NewMemory(fixtures map[string][]record.Record) *Memory {
	m := &Memory{resources: make(map[string]map[string]record.Record)}
	for resource, records := range fixtures {
		m.Add(resource, records...)
	}
	return m
}

// Add registers records under resource.
func (m *Memory) Add(resource string, records ...record.Record) {
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.resources[resource]
	if !ok {
		bucket = make(map[string]record.Record, len(records))
		m.resources[resource] = bucket
	}
	for _, rec := range records {
		if key := rec.Key(); key != "" {
			bucket[key] = rec.Clone()
		}
	}
}

// GetMany implements Provider.
func (m *Memory) GetMany(ctx context.Context, resource string, ids []record.Identifier) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	bucket, ok := m.resources[strings.TrimSpace(resource)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownResource, resource)
	}

	out := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := bucket[record.Key(id)]; ok {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}
