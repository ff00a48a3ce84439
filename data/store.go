package data

import (
	"context"
	"errors"
)

// ErrNotFound indicates that the referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Record represents an authoritative entity held by the primary store.
// Fields exposes the record's values keyed by field name; it is the source
// view the projector whitelists from.
type Record interface {
	ObjectID() string
	Fields() map[string]any
}

// ListOptions controls record listing. Results are ordered by SortField
// ascending, then id ascending; the secondary key exists purely to make
// pagination deterministic when sort values collide.
type ListOptions struct {
	Filter    map[string]any
	SortField string
	Offset    int64
	Limit     int64
}

// Store is the record-store collaborator contract. The search layer never
// assumes a specific store technology behind it.
type Store interface {
	Get(ctx context.Context, id string) (Record, error)
	Put(ctx context.Context, record Record) error
	Update(ctx context.Context, id string, fields map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Record, error)
}
