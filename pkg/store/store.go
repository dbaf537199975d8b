// Package store holds resolved reference records keyed by resource and
// identifier. The store only grows: once a record is present it stays present
// for the lifetime of the store, which keeps the loaded state monotonic.
package store

import (
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-refs/pkg/record"
)

// Store is a thread-safe resource -> key -> record map.
type Store struct {
	mu        sync.RWMutex
	resources map[string]map[string]record.Record
}

// New creates an empty store.
func New() *Store {
	return &Store{
		resources: make(map[string]map[string]record.Record),
	}
}

// Put stores records under resource. Records without an identifier are
// skipped. Existing entries are replaced with the newer payload.
func (s *Store) Put(resource string, records ...record.Record) int {
	resource = normalize(resource)
	if resource == "" || len(records) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.resources[resource]
	if !ok {
		bucket = make(map[string]record.Record, len(records))
		s.resources[resource] = bucket
	}

	stored := 0
	for _, rec := range records {
		key := rec.Key()
		if key == "" {
			continue
		}
		bucket[key] = rec.Clone()
		stored++
	}
	return stored
}

// Get returns the record for id within resource.
func (s *Store) Get(resource string, id record.Identifier) (record.Record, bool) {
	key := record.Key(id)
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.resources[normalize(resource)][key]
	return rec, ok
}

// Many returns the records found for ids keyed by record.Key, and whether every
// identifier resolved.
func (s *Store) Many(resource string, ids []record.Identifier) (map[string]record.Record, bool) {
	out := make(map[string]record.Record, len(ids))

	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.resources[normalize(resource)]
	complete := true
	for _, id := range ids {
		key := record.Key(id)
		rec, ok := bucket[key]
		if !ok {
			complete = false
			continue
		}
		out[key] = rec
	}
	return out, complete
}

// Missing returns the identifiers not yet stored, de-duplicated by key and in
// request order.
func (s *Store) Missing(resource string, ids []record.Identifier) []record.Identifier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.resources[normalize(resource)]
	seen := make(map[string]struct{}, len(ids))
	var out []record.Identifier
	for _, id := range ids {
		key := record.Key(id)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := bucket[key]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Resources returns the sorted resource names currently held.
func (s *Store) Resources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func normalize(resource string) string {
	return strings.TrimSpace(resource)
}
