// Package memory implements search.Backend in process, for tests and local
// development. It honors the configured settings (searchable attributes,
// facets, ranking, highlight delimiters) and evaluates the same filter
// grammar the filter builder and the age-range helper emit, so query-layer
// behavior can be verified without a hosted engine.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shelterhq/refuge/search"
)

const defaultHitsPerPage = 20

type index struct {
	settings search.IndexSettings
	docs     map[string]search.Document
}

// Backend is an in-memory search backend. Call counters and the last
// partial-update payload are recorded so tests can assert on write traffic.
type Backend struct {
	mu      sync.RWMutex
	indices map[string]*index

	calls             map[string]int
	lastPartialUpdate search.Document
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{
		indices: make(map[string]*index),
		calls:   make(map[string]int),
	}
}

func (b *Backend) idx(name string) *index {
	if i, ok := b.indices[name]; ok {
		return i
	}
	i := &index{docs: make(map[string]search.Document)}
	b.indices[name] = i
	return i
}

// Calls returns how many times the named operation ran ("save", "partial",
// "delete", "clear", "configure", "search", "facet").
func (b *Backend) Calls(op string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.calls[op]
}

// LastPartialUpdate returns the payload of the most recent partial update.
func (b *Backend) LastPartialUpdate() search.Document {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastPartialUpdate
}

// Documents returns the documents of an index keyed by objectID.
func (b *Backend) Documents(name string) map[string]search.Document {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]search.Document)
	if i, ok := b.indices[name]; ok {
		for id, doc := range i.docs {
			out[id] = doc
		}
	}
	return out
}

func (b *Backend) Configure(ctx context.Context, name string, settings search.IndexSettings) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["configure"]++
	b.idx(name).settings = settings
	return nil
}

func (b *Backend) SaveDocuments(ctx context.Context, name string, docs []search.Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["save"]++
	i := b.idx(name)
	for _, doc := range docs {
		if doc.ID() == "" {
			return fmt.Errorf("document without %s", search.ObjectID)
		}
		i.docs[doc.ID()] = doc
	}
	return nil
}

func (b *Backend) PartialUpdate(ctx context.Context, name string, doc search.Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["partial"]++
	b.lastPartialUpdate = doc
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("partial update without %s", search.ObjectID)
	}
	i := b.idx(name)
	existing, ok := i.docs[id]
	if !ok {
		existing = search.Document{}
		i.docs[id] = existing
	}
	for k, v := range doc {
		// A null attribute clears the stored value, as the engine does on a
		// merged null.
		if v == nil {
			delete(existing, k)
			continue
		}
		existing[k] = v
	}
	return nil
}

func (b *Backend) DeleteDocument(ctx context.Context, name, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["delete"]++
	delete(b.idx(name).docs, id)
	return nil
}

func (b *Backend) Clear(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["clear"]++
	b.idx(name).docs = make(map[string]search.Document)
	return nil
}

func (b *Backend) Search(ctx context.Context, name string, req search.Request) (*search.Response, error) {
	b.mu.Lock()
	b.calls["search"]++
	b.mu.Unlock()

	b.mu.RLock()
	defer b.mu.RUnlock()
	i := b.idx(name)

	pred, err := compileFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	var matched []search.Document
	for _, doc := range i.docs {
		if !pred(doc) {
			continue
		}
		if req.Term != "" && !matchesTerm(doc, i.settings.Searchable, req.Term) {
			continue
		}
		matched = append(matched, doc)
	}

	rankDocuments(matched, i.settings.Ranking)

	hitsPerPage := req.HitsPerPage
	if hitsPerPage <= 0 {
		hitsPerPage = defaultHitsPerPage
	}
	total := int64(len(matched))
	pageCount := (total + hitsPerPage - 1) / hitsPerPage
	start := req.Page * hitsPerPage
	if start > total {
		start = total
	}
	end := start + hitsPerPage
	if end > total {
		end = total
	}

	preTag, postTag := req.PreTag, req.PostTag
	if preTag == "" {
		preTag, postTag = i.settings.PreTag, i.settings.PostTag
	}
	highlight := req.Highlight
	if len(highlight) == 0 {
		highlight = i.settings.Searchable
	}

	hits := make([]search.RawHit, 0, end-start)
	for _, doc := range matched[start:end] {
		hits = append(hits, rawHit(doc, highlight, req.Term, preTag, postTag))
	}

	return &search.Response{
		Hits:           hits,
		HitsTotalCount: total,
		Page:           req.Page,
		PageCount:      pageCount,
	}, nil
}

func (b *Backend) SearchFacetValues(ctx context.Context, name, facet, term string) ([]search.FacetValue, error) {
	b.mu.Lock()
	b.calls["facet"]++
	b.mu.Unlock()

	b.mu.RLock()
	defer b.mu.RUnlock()
	i := b.idx(name)

	if !i.settings.IsFacetSearchable(facet) {
		return nil, fmt.Errorf("attribute %q of index %q is not facet-searchable", facet, name)
	}

	counts := make(map[string]int64)
	for _, doc := range i.docs {
		for _, value := range facetValues(doc[facet]) {
			if term == "" || containsFold(value, term) {
				counts[value]++
			}
		}
	}

	out := make([]search.FacetValue, 0, len(counts))
	for value, count := range counts {
		out = append(out, search.FacetValue{
			Value:       value,
			Highlighted: highlightTerm(value, term, i.settings.PreTag, i.settings.PostTag),
			Count:       count,
		})
	}
	sort.Slice(out, func(a, c int) bool {
		if out[a].Count != out[c].Count {
			return out[a].Count > out[c].Count
		}
		return out[a].Value < out[c].Value
	})

	max := i.settings.MaxFacetHits
	if max <= 0 {
		max = 10
	}
	if int64(len(out)) > max {
		out = out[:max]
	}
	return out, nil
}

func facetValues(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case bool:
		return []string{fmt.Sprint(t)}
	default:
		return nil
	}
}

func matchesTerm(doc search.Document, searchable []string, term string) bool {
	for _, attr := range searchable {
		if s, ok := doc[attr].(string); ok && containsFold(s, term) {
			return true
		}
	}
	return false
}

func rankDocuments(docs []search.Document, ranking []search.Rank) {
	sort.Slice(docs, func(a, b int) bool {
		for _, rank := range ranking {
			av, aok := toFloat(docs[a][rank.Attribute])
			bv, bok := toFloat(docs[b][rank.Attribute])
			if aok && bok && av != bv {
				if rank.Desc {
					return av > bv
				}
				return av < bv
			}
		}
		return docs[a].ID() < docs[b].ID()
	})
}

func rawHit(doc search.Document, highlight []string, term, preTag, postTag string) search.RawHit {
	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		fields[k] = v
	}
	highlighted := make(map[string]string)
	if term != "" {
		for _, attr := range highlight {
			if s, ok := doc[attr].(string); ok && containsFold(s, term) {
				highlighted[attr] = highlightTerm(s, term, preTag, postTag)
			}
		}
	}
	return search.RawHit{Fields: fields, Highlighted: highlighted}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func highlightTerm(value, term, preTag, postTag string) string {
	if term == "" {
		return value
	}
	idx := strings.Index(strings.ToLower(value), strings.ToLower(term))
	if idx < 0 {
		return value
	}
	end := idx + len(term)
	return value[:idx] + preTag + value[idx:end] + postTag + value[end:]
}
