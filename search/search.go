package search

import (
	"context"
	"encoding/json"
	"time"
)

// ObjectID is the document primary key attribute. Every document mirrors the
// id of the record it was projected from.
const ObjectID = "objectID"

// Document represents a denormalized search document keyed by attribute name.
type Document map[string]any

// ID returns the document objectID, or an empty string when absent.
func (d Document) ID() string {
	if v, ok := d[ObjectID].(string); ok {
		return v
	}
	return ""
}

// Request represents a unified search request against one index.
type Request struct {
	Term        string   `json:"term"`
	Page        int64    `json:"page"`
	HitsPerPage int64    `json:"hits_per_page"`
	Filters     string   `json:"filters,omitempty"`
	Highlight   []string `json:"highlight,omitempty"`
	PreTag      string   `json:"pre_tag,omitempty"`
	PostTag     string   `json:"post_tag,omitempty"`
}

// Response represents a raw engine response before hit mapping.
type Response struct {
	Hits           []RawHit `json:"hits"`
	HitsTotalCount int64    `json:"hits_total_count"`
	Page           int64    `json:"page"`
	PageCount      int64    `json:"page_count"`
}

// Result represents a typed search result page.
type Result[T any] struct {
	Hits           []T   `json:"hits"`
	HitsTotalCount int64 `json:"hitsTotalCount"`
	Page           int64 `json:"page"`
	PageCount      int64 `json:"pageCount"`
}

// MapResult converts a raw response into a typed result using mapHit.
func MapResult[T any](resp *Response, mapHit func(RawHit) T) *Result[T] {
	hits := make([]T, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		hits = append(hits, mapHit(h))
	}
	return &Result[T]{
		Hits:           hits,
		HitsTotalCount: resp.HitsTotalCount,
		Page:           resp.Page,
		PageCount:      resp.PageCount,
	}
}

// RawHit represents one document returned by a query, with per-attribute
// highlight metadata when the engine produced any.
type RawHit struct {
	Fields      map[string]any
	Highlighted map[string]string
}

// String returns the named attribute as a string.
func (h RawHit) String(attr string) string {
	switch v := h.Fields[attr].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Bool returns the named attribute as a bool.
func (h RawHit) Bool(attr string) bool {
	v, _ := h.Fields[attr].(bool)
	return v
}

// Int64 returns the named attribute as an int64. JSON numbers decode as
// float64, so both representations are accepted.
func (h RawHit) Int64(attr string) int64 {
	switch v := h.Fields[attr].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}

// StringSlice returns the named attribute as a slice of strings.
func (h RawHit) StringSlice(attr string) []string {
	switch v := h.Fields[attr].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Time interprets the named attribute as an epoch-millisecond timestamp.
func (h RawHit) Time(attr string) time.Time {
	ms := h.Int64(attr)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// HighlightedOrRaw returns the highlighted fragment for the attribute when
// the engine provided one, falling back to the raw value so callers never
// have to null-check highlight availability.
func (h RawHit) HighlightedOrRaw(attr string) string {
	if v, ok := h.Highlighted[attr]; ok && v != "" {
		return v
	}
	return h.String(attr)
}

// FacetValue represents one facet-value hit from a facet search.
type FacetValue struct {
	Value       string `json:"value"`
	Highlighted string `json:"highlightedValue"`
	Count       int64  `json:"count"`
}

// Backend is the search-engine seam. Implementations: the Meilisearch-backed
// backend (search/meili) and the in-memory fake (search/memory), selected at
// construction time.
type Backend interface {
	// Configure applies declarative index settings. Idempotent.
	Configure(ctx context.Context, index string, settings IndexSettings) error
	// SaveDocuments upserts full documents keyed by objectID.
	SaveDocuments(ctx context.Context, index string, docs []Document) error
	// PartialUpdate merges the given attributes into an existing document.
	PartialUpdate(ctx context.Context, index string, doc Document) error
	// DeleteDocument removes one document. Deleting an absent document is
	// not an error.
	DeleteDocument(ctx context.Context, index, id string) error
	// Clear removes every document from the index.
	Clear(ctx context.Context, index string) error
	// Search executes a paginated, filtered query.
	Search(ctx context.Context, index string, req Request) (*Response, error)
	// SearchFacetValues searches the values of one facet attribute.
	SearchFacetValues(ctx context.Context, index, facet, term string) ([]FacetValue, error)
}
