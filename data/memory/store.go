// Package memory provides an in-process record store used by tests and by
// the in-memory search backend wiring. It holds field-map snapshots of the
// records it is given, so updates and listings behave like a document store
// without any field-level knowledge of the entity types.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shelterhq/refuge/data"
)

type record struct {
	id     string
	fields map[string]any
}

func (r *record) ObjectID() string { return r.id }

func (r *record) Fields() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Store is a map-backed record store.
type Store struct {
	mu      sync.RWMutex
	records map[string]*record
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{records: make(map[string]*record)}
}

func (s *Store) Get(ctx context.Context, id string) (data.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	return &record{id: rec.id, fields: rec.Fields()}, nil
}

func (s *Store) Put(ctx context.Context, r data.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ObjectID()] = &record{id: r.ObjectID(), fields: r.Fields()}
	return nil
}

func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (data.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	for k, v := range fields {
		rec.fields[k] = v
	}
	return &record{id: rec.id, fields: rec.Fields()}, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return data.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *Store) List(ctx context.Context, opts data.ListOptions) ([]data.Record, error) {
	s.mu.RLock()
	matched := make([]*record, 0, len(s.records))
	for _, rec := range s.records {
		if matchesFilter(rec.fields, opts.Filter) {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if opts.SortField != "" {
			a := fmt.Sprint(matched[i].fields[opts.SortField])
			b := fmt.Sprint(matched[j].fields[opts.SortField])
			if a != b {
				return a < b
			}
		}
		return matched[i].id < matched[j].id
	})

	if opts.Offset > 0 {
		if opts.Offset >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[opts.Offset:]
		}
	}
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	out := make([]data.Record, 0, len(matched))
	for _, rec := range matched {
		out = append(out, &record{id: rec.id, fields: rec.Fields()})
	}
	return out, nil
}

func matchesFilter(fields, filter map[string]any) bool {
	for k, want := range filter {
		if fmt.Sprint(fields[k]) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
