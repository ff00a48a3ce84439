// Package meili implements search.Backend against a hosted Meilisearch
// instance. It performs no retries, no caching and imposes no timeout beyond
// the HTTP client default; engine errors propagate to the caller.
package meili

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meilisearch/meilisearch-go"

	"github.com/shelterhq/refuge/search"
)

// Engine ranking rules applied before any custom ranking attribute.
var defaultRankingRules = []string{"words", "typo", "proximity", "attribute", "sort", "exactness"}

// Backend is the Meilisearch-backed search backend.
type Backend struct {
	client *Client
}

// NewBackend creates a backend over the given client.
func NewBackend(client *Client) *Backend {
	return &Backend{client: client}
}

func (b *Backend) Configure(ctx context.Context, index string, settings search.IndexSettings) error {
	// Every facet mode maps onto the filterable list; the engine has no
	// per-attribute facet-search switch, so the FilterOnly exclusion is
	// enforced where the settings are known (see IsFacetSearchable).
	facetAttrs := settings.FacetAttributes()
	filterable := make([]any, 0, len(facetAttrs))
	for _, attr := range facetAttrs {
		filterable = append(filterable, attr)
	}

	rankingRules := append([]string{}, defaultRankingRules...)
	sortable := make([]string, 0, len(settings.Ranking))
	for _, rank := range settings.Ranking {
		direction := "asc"
		if rank.Desc {
			direction = "desc"
		}
		rankingRules = append(rankingRules, fmt.Sprintf("%s:%s", rank.Attribute, direction))
		sortable = append(sortable, rank.Attribute)
	}

	engineSettings := &meilisearch.Settings{
		SearchableAttributes: settings.Searchable,
		FilterableAttributes: filterable,
		SortableAttributes:   sortable,
		RankingRules:         rankingRules,
	}
	if settings.MaxFacetHits > 0 {
		engineSettings.Faceting = &meilisearch.Faceting{MaxValuesPerFacet: settings.MaxFacetHits}
	}
	return b.client.UpdateSettings(index, engineSettings)
}

func (b *Backend) SaveDocuments(ctx context.Context, index string, docs []search.Document) error {
	if len(docs) == 0 {
		return nil
	}
	payload := make([]map[string]any, len(docs))
	for i, doc := range docs {
		payload[i] = doc
	}
	return b.client.AddDocuments(index, payload, search.ObjectID)
}

func (b *Backend) PartialUpdate(ctx context.Context, index string, doc search.Document) error {
	return b.client.UpdateDocuments(index, map[string]any(doc), search.ObjectID)
}

func (b *Backend) DeleteDocument(ctx context.Context, index, id string) error {
	return b.client.DeleteDocument(index, id)
}

func (b *Backend) Clear(ctx context.Context, index string) error {
	return b.client.DeleteAllDocuments(index)
}

func (b *Backend) Search(ctx context.Context, index string, req search.Request) (*search.Response, error) {
	params := &meilisearch.SearchRequest{
		// The engine's page parameter is 1-based.
		Page:        req.Page + 1,
		HitsPerPage: req.HitsPerPage,
	}
	if req.Filters != "" {
		params.Filter = req.Filters
	}
	if len(req.Highlight) > 0 {
		params.AttributesToHighlight = req.Highlight
		params.HighlightPreTag = req.PreTag
		params.HighlightPostTag = req.PostTag
	}

	resp, err := b.client.Search(ctx, index, req.Term, params)
	if err != nil {
		return nil, err
	}

	hits := make([]search.RawHit, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		hits = append(hits, decodeHit(hit))
	}

	page := resp.Page - 1
	if page < 0 {
		page = 0
	}
	return &search.Response{
		Hits:           hits,
		HitsTotalCount: resp.TotalHits,
		Page:           page,
		PageCount:      resp.TotalPages,
	}, nil
}

func (b *Backend) SearchFacetValues(ctx context.Context, index, facet, term string) ([]search.FacetValue, error) {
	raw, err := b.client.FacetSearch(ctx, index, &meilisearch.FacetSearchRequest{
		FacetName:  facet,
		FacetQuery: term,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		FacetHits []struct {
			Value string `json:"value"`
			Count int64  `json:"count"`
		} `json:"facetHits"`
	}
	if raw != nil {
		if err := json.Unmarshal(*raw, &resp); err != nil {
			return nil, fmt.Errorf("decode facet search response: %w", err)
		}
	}

	values := make([]search.FacetValue, 0, len(resp.FacetHits))
	for _, hit := range resp.FacetHits {
		values = append(values, search.FacetValue{
			Value: hit.Value,
			// The engine returns no highlight metadata for facet hits; the
			// fallback rule applies.
			Highlighted: hit.Value,
			Count:       hit.Count,
		})
	}
	return values, nil
}

// decodeHit converts one raw engine hit into the unified hit shape, lifting
// the _formatted attribute map into highlight metadata.
func decodeHit(hit map[string]json.RawMessage) search.RawHit {
	fields := make(map[string]any, len(hit))
	highlighted := make(map[string]string)

	for attr, raw := range hit {
		if attr == "_formatted" {
			var formatted map[string]any
			if err := json.Unmarshal(raw, &formatted); err == nil {
				for k, v := range formatted {
					if s, ok := v.(string); ok {
						highlighted[k] = s
					}
				}
			}
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err == nil {
			fields[attr] = value
		}
	}
	return search.RawHit{Fields: fields, Highlighted: highlighted}
}
