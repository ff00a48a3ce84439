package meili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
)

// Client is a thin Meilisearch client wrapper. It guards every call against
// a missing connection so a misconfigured host fails with a clear error
// instead of a panic.
type Client struct {
	client meilisearch.ServiceManager
}

// NewClient creates a new Meilisearch client.
func NewClient(host, apiKey string) *Client {
	if host == "" {
		return &Client{client: nil}
	}
	ms := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &Client{client: ms}
}

// Search searches an index.
func (c *Client) Search(ctx context.Context, index, query string, options *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("meilisearch client is nil, cannot perform search")
	}
	resp, err := c.client.Index(index).SearchWithContext(ctx, query, options)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search error: %w", err)
	}
	return resp, nil
}

// FacetSearch searches the values of one facet.
func (c *Client) FacetSearch(ctx context.Context, index string, request *meilisearch.FacetSearchRequest) (*json.RawMessage, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("meilisearch client is nil, cannot perform facet search")
	}
	resp, err := c.client.Index(index).FacetSearchWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("meilisearch facet search error: %w", err)
	}
	return resp, nil
}

// AddDocuments adds documents to an index.
func (c *Client) AddDocuments(index string, documents any, primaryKey ...string) error {
	if c == nil || c.client == nil {
		return errors.New("meilisearch client is nil, cannot add documents")
	}

	docs := toDocumentSlice(documents)
	var pk *string
	if len(primaryKey) > 0 && primaryKey[0] != "" {
		pk = &primaryKey[0]
	}

	_, err := c.client.Index(index).AddDocuments(docs, &meilisearch.DocumentOptions{PrimaryKey: pk})
	if err != nil {
		return fmt.Errorf("meilisearch add documents error: %w", err)
	}
	return nil
}

// UpdateDocuments partially updates documents in an index; attributes absent
// from the payload keep their indexed value.
func (c *Client) UpdateDocuments(index string, documents any, primaryKey ...string) error {
	if c == nil || c.client == nil {
		return errors.New("meilisearch client is nil, cannot update documents")
	}

	docs := toDocumentSlice(documents)
	var pk *string
	if len(primaryKey) > 0 && primaryKey[0] != "" {
		pk = &primaryKey[0]
	}

	_, err := c.client.Index(index).UpdateDocuments(docs, &meilisearch.DocumentOptions{PrimaryKey: pk})
	if err != nil {
		return fmt.Errorf("meilisearch update documents error: %w", err)
	}
	return nil
}

// DeleteDocument deletes a single document. Deleting an absent document is
// accepted by the engine.
func (c *Client) DeleteDocument(index, documentID string) error {
	if c == nil || c.client == nil {
		return errors.New("meilisearch client is nil, cannot delete document")
	}

	_, err := c.client.Index(index).DeleteDocument(documentID, nil)
	if err != nil {
		return fmt.Errorf("meilisearch delete document error: %w", err)
	}
	return nil
}

// DeleteAllDocuments deletes all documents from an index.
func (c *Client) DeleteAllDocuments(index string) error {
	if c == nil || c.client == nil {
		return errors.New("meilisearch client is nil, cannot delete all documents")
	}

	_, err := c.client.Index(index).DeleteAllDocuments(nil)
	if err != nil {
		return fmt.Errorf("meilisearch delete all documents error: %w", err)
	}
	return nil
}

// UpdateSettings updates index settings. Declarative: repeating the same
// settings is a no-op on the engine side.
func (c *Client) UpdateSettings(index string, settings *meilisearch.Settings) error {
	if c == nil || c.client == nil {
		return errors.New("meilisearch client is nil, cannot update settings")
	}

	_, err := c.client.Index(index).UpdateSettings(settings)
	if err != nil {
		return fmt.Errorf("meilisearch update settings error: %w", err)
	}
	return nil
}

// IsHealthy reports whether the engine responds to health checks.
func (c *Client) IsHealthy() bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.IsHealthy()
}

func toDocumentSlice(documents any) []any {
	switch v := documents.(type) {
	case []any:
		return v
	case []map[string]any:
		docs := make([]any, len(v))
		for i, doc := range v {
			docs[i] = doc
		}
		return docs
	case map[string]any:
		return []any{v}
	default:
		return []any{documents}
	}
}
