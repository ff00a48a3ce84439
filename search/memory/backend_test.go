package memory

import (
	"context"
	"testing"

	"github.com/shelterhq/refuge/search"
)

func seedBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	ctx := context.Background()

	err := b.Configure(ctx, "animals", search.IndexSettings{
		Searchable: []string{"name", "alias"},
		Facets: []search.Facet{
			{Attribute: "species"},
			{Attribute: "pickUpLocation", Mode: search.FacetSearchable},
			{Attribute: "birthdateTimestamp", Mode: search.FacetFilterOnly},
		},
		Ranking:      []search.Rank{{Attribute: "pickUpDateTimestamp", Desc: true}},
		PreTag:       "<mark>",
		PostTag:      "</mark>",
		MaxFacetHits: 20,
	})
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	docs := []search.Document{
		{search.ObjectID: "1", "name": "Rex", "species": "DOG", "status": "ADOPTED", "pickUpLocation": "Meaux", "pickUpDateTimestamp": int64(300), "birthdateTimestamp": int64(150)},
		{search.ObjectID: "2", "name": "Luna", "species": "CAT", "status": "OPEN_TO_ADOPTION", "pickUpLocation": "Meaux", "pickUpDateTimestamp": int64(200), "birthdateTimestamp": int64(50)},
		{search.ObjectID: "3", "name": "Rexa", "species": "DOG", "status": "RESERVED", "pickUpLocation": "Paris", "pickUpDateTimestamp": int64(100), "birthdateTimestamp": int64(250)},
	}
	if err := b.SaveDocuments(ctx, "animals", docs); err != nil {
		t.Fatalf("SaveDocuments() error = %v", err)
	}
	return b
}

func TestSearch_TermAndHighlight(t *testing.T) {
	b := seedBackend(t)
	resp, err := b.Search(context.Background(), "animals", search.Request{Term: "rex", HitsPerPage: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.HitsTotalCount != 2 {
		t.Fatalf("HitsTotalCount = %d, want 2", resp.HitsTotalCount)
	}
	// Custom ranking orders by pickUpDateTimestamp descending.
	if resp.Hits[0].String("name") != "Rex" || resp.Hits[1].String("name") != "Rexa" {
		t.Fatalf("unexpected ranking order: %v, %v", resp.Hits[0].Fields, resp.Hits[1].Fields)
	}
	if got := resp.Hits[0].HighlightedOrRaw("name"); got != "<mark>Rex</mark>" {
		t.Fatalf("highlighted name = %q", got)
	}
	// Attribute without a match falls back to the raw value.
	if got := resp.Hits[0].HighlightedOrRaw("species"); got != "DOG" {
		t.Fatalf("fallback = %q, want raw value", got)
	}
}

func TestSearch_EmptyTermMatchesAll(t *testing.T) {
	b := seedBackend(t)
	resp, err := b.Search(context.Background(), "animals", search.Request{HitsPerPage: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.HitsTotalCount != 3 {
		t.Fatalf("empty term must match all, got %d", resp.HitsTotalCount)
	}
}

func TestSearch_FilterGrammar(t *testing.T) {
	b := seedBackend(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters search.Filters
		wantIDs []string
	}{
		{
			name:    "or group with conjunction",
			filters: search.Filters{"status": []string{"ADOPTED", "RESERVED"}, "species": "DOG"},
			wantIDs: []string{"1", "3"},
		},
		{
			name:    "single scalar",
			filters: search.Filters{"pickUpLocation": "Paris"},
			wantIDs: []string{"3"},
		},
		{
			name:    "range clause",
			filters: search.Filters{"age": search.Clause("birthdateTimestamp 100 TO 200")},
			wantIDs: []string{"1"},
		},
		{
			name:    "empty filters match all",
			filters: search.Filters{},
			wantIDs: []string{"1", "2", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := b.Search(ctx, "animals", search.Request{
				HitsPerPage: 10,
				Filters:     search.BuildFilters(tt.filters),
			})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			got := make(map[string]bool)
			for _, hit := range resp.Hits {
				got[hit.String(search.ObjectID)] = true
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("matched %v, want ids %v", got, tt.wantIDs)
			}
			for _, id := range tt.wantIDs {
				if !got[id] {
					t.Fatalf("missing id %s in %v", id, got)
				}
			}
		})
	}
}

func TestSearch_Pagination(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()
	if err := b.Configure(ctx, "idx", search.IndexSettings{Searchable: []string{"name"}}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	var docs []search.Document
	for i := 0; i < 37; i++ {
		docs = append(docs, search.Document{search.ObjectID: string(rune('a'+i/26)) + string(rune('a'+i%26)), "name": "doc"})
	}
	if err := b.SaveDocuments(ctx, "idx", docs); err != nil {
		t.Fatalf("SaveDocuments() error = %v", err)
	}

	resp, err := b.Search(ctx, "idx", search.Request{HitsPerPage: 18, Page: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.HitsTotalCount != 37 {
		t.Fatalf("HitsTotalCount = %d, want 37", resp.HitsTotalCount)
	}
	if resp.PageCount != 3 {
		t.Fatalf("PageCount = %d, want 3", resp.PageCount)
	}
	if len(resp.Hits) != 1 {
		t.Fatalf("page 2 holds %d hits, want 1", len(resp.Hits))
	}
}

func TestSearchFacetValues(t *testing.T) {
	b := seedBackend(t)
	values, err := b.SearchFacetValues(context.Background(), "animals", "pickUpLocation", "mea")
	if err != nil {
		t.Fatalf("SearchFacetValues() error = %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("got %d facet values, want 1", len(values))
	}
	v := values[0]
	if v.Value != "Meaux" || v.Count != 2 {
		t.Fatalf("facet value = %+v, want Meaux x2", v)
	}
	if v.Highlighted != "<mark>Mea</mark>ux" {
		t.Fatalf("highlighted facet value = %q", v.Highlighted)
	}
}

func TestSearchFacetValues_ModeEnforcement(t *testing.T) {
	b := seedBackend(t)
	ctx := context.Background()

	// Filter-only facets can appear in filter expressions but never in
	// facet-value search.
	if _, err := b.SearchFacetValues(ctx, "animals", "birthdateTimestamp", ""); err == nil {
		t.Fatal("facet search on a filter-only attribute must fail")
	}
	if _, err := b.SearchFacetValues(ctx, "animals", "undeclared", ""); err == nil {
		t.Fatal("facet search on an undeclared attribute must fail")
	}
}

func TestPartialUpdate_MergesIntoExisting(t *testing.T) {
	b := seedBackend(t)
	ctx := context.Background()
	err := b.PartialUpdate(ctx, "animals", search.Document{search.ObjectID: "1", "name": "Max"})
	if err != nil {
		t.Fatalf("PartialUpdate() error = %v", err)
	}
	doc := b.Documents("animals")["1"]
	if doc["name"] != "Max" {
		t.Fatalf("name = %v, want Max", doc["name"])
	}
	if doc["species"] != "DOG" {
		t.Fatalf("untouched attribute clobbered: %v", doc)
	}
}

func TestPartialUpdate_NullClearsAttribute(t *testing.T) {
	b := seedBackend(t)
	ctx := context.Background()
	err := b.PartialUpdate(ctx, "animals", search.Document{search.ObjectID: "1", "pickUpLocation": nil})
	if err != nil {
		t.Fatalf("PartialUpdate() error = %v", err)
	}
	doc := b.Documents("animals")["1"]
	if v, ok := doc["pickUpLocation"]; ok {
		t.Fatalf("null merge must clear the attribute, still holds %v", v)
	}
	if doc["name"] != "Rex" {
		t.Fatalf("untouched attribute clobbered: %v", doc)
	}
}

func TestDeleteDocument_IdempotentAndClear(t *testing.T) {
	b := seedBackend(t)
	ctx := context.Background()
	if err := b.DeleteDocument(ctx, "animals", "1"); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if err := b.DeleteDocument(ctx, "animals", "1"); err != nil {
		t.Fatalf("second DeleteDocument() must not fail, got %v", err)
	}
	if err := b.Clear(ctx, "animals"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n := len(b.Documents("animals")); n != 0 {
		t.Fatalf("%d documents left after Clear()", n)
	}
}
