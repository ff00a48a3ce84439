// Package query translates typed, paginated, filtered search requests into
// engine calls and maps hits back into typed result items. The read path
// goes through the index only, never through the record store.
package query

import (
	"context"
	"fmt"

	"github.com/shelterhq/refuge/catalog"
	"github.com/shelterhq/refuge/search"
)

// Hits-per-page constants, fixed per entity.
const (
	AnimalHitsPerPage       = 18
	BreedHitsPerPage        = 10
	ColorHitsPerPage        = 10
	FosterFamilyHitsPerPage = 20
	UserHitsPerPage         = 20
	EventHitsPerPage        = 12
)

// Executor runs faceted queries against the search backend.
type Executor struct {
	backend search.Backend
}

// NewExecutor creates a query executor over the given backend.
func NewExecutor(backend search.Backend) *Executor {
	return &Executor{backend: backend}
}

func run[T any](ctx context.Context, backend search.Backend, desc *catalog.Descriptor,
	term string, page int64, hitsPerPage int64, filters string, mapHit func(search.RawHit) T) (*search.Result[T], error) {

	if page < 0 {
		page = 0
	}
	resp, err := backend.Search(ctx, desc.Index, search.Request{
		Term:        term,
		Page:        page,
		HitsPerPage: hitsPerPage,
		Filters:     filters,
		Highlight:   desc.Settings.Searchable,
		PreTag:      desc.Settings.PreTag,
		PostTag:     desc.Settings.PostTag,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", desc.Index, err)
	}
	return search.MapResult(resp, mapHit), nil
}

// AnimalAgeSelection narrows animals to a semantic age bucket of a species.
type AnimalAgeSelection struct {
	Species catalog.Species
	Bucket  catalog.AgeBucket
}

// AnimalRequest is a typed animal search request.
type AnimalRequest struct {
	Term            string
	Page            int64
	Species         []string
	Statuses        []string
	PickUpLocations []string
	Age             *AnimalAgeSelection
}

// SearchAnimals runs a faceted animal query. An unrecognized age selection
// omits the age filter entirely rather than matching nothing or everything.
func (e *Executor) SearchAnimals(ctx context.Context, req AnimalRequest) (*search.Result[AnimalHit], error) {
	fields := search.Filters{
		"species":                  req.Species,
		"status":                   req.Statuses,
		catalog.AttrPickUpLocation: req.PickUpLocations,
	}
	if req.Age != nil {
		if clause, ok := catalog.AgeRangeClause(req.Age.Species, req.Age.Bucket); ok {
			fields[catalog.AttrBirthdateTimestamp] = clause
		}
	}
	filters := search.BuildFilters(fields)
	return run(ctx, e.backend, catalog.Animals, req.Term, req.Page, AnimalHitsPerPage, filters, mapAnimalHit)
}

// BreedRequest is a typed breed search request.
type BreedRequest struct {
	Term    string
	Page    int64
	Species []string
}

func (e *Executor) SearchBreeds(ctx context.Context, req BreedRequest) (*search.Result[BreedHit], error) {
	filters := search.BuildFilters(search.Filters{"species": req.Species})
	return run(ctx, e.backend, catalog.Breeds, req.Term, req.Page, BreedHitsPerPage, filters, mapBreedHit)
}

// ColorRequest is a typed color search request.
type ColorRequest struct {
	Term string
	Page int64
}

func (e *Executor) SearchColors(ctx context.Context, req ColorRequest) (*search.Result[ColorHit], error) {
	return run(ctx, e.backend, catalog.Colors, req.Term, req.Page, ColorHitsPerPage, "", mapColorHit)
}

// FosterFamilyRequest is a typed foster-family search request.
type FosterFamilyRequest struct {
	Term          string
	Page          int64
	Cities        []string
	SpeciesToHost []string
}

func (e *Executor) SearchFosterFamilies(ctx context.Context, req FosterFamilyRequest) (*search.Result[FosterFamilyHit], error) {
	filters := search.BuildFilters(search.Filters{
		catalog.AttrCity: req.Cities,
		"speciesToHost":  req.SpeciesToHost,
	})
	return run(ctx, e.backend, catalog.FosterFamilies, req.Term, req.Page, FosterFamilyHitsPerPage, filters, mapFosterFamilyHit)
}

// UserRequest is a typed user search request.
type UserRequest struct {
	Term       string
	Page       int64
	Groups     []string
	IsDisabled *bool
}

func (e *Executor) SearchUsers(ctx context.Context, req UserRequest) (*search.Result[UserHit], error) {
	fields := search.Filters{"groups": req.Groups}
	if req.IsDisabled != nil {
		fields["isDisabled"] = *req.IsDisabled
	}
	filters := search.BuildFilters(fields)
	return run(ctx, e.backend, catalog.Users, req.Term, req.Page, UserHitsPerPage, filters, mapUserHit)
}

// EventRequest is a typed event search request.
type EventRequest struct {
	Term        string
	Page        int64
	VisibleOnly bool
}

func (e *Executor) SearchEvents(ctx context.Context, req EventRequest) (*search.Result[EventHit], error) {
	fields := search.Filters{}
	if req.VisibleOnly {
		fields["isVisible"] = true
	}
	filters := search.BuildFilters(fields)
	return run(ctx, e.backend, catalog.Events, req.Term, req.Page, EventHitsPerPage, filters, mapEventHit)
}

// searchFacet runs a facet-value search after checking that the attribute is
// actually declared facet-searchable; filter-only facets (timestamps, flags)
// are rejected before any engine call.
func (e *Executor) searchFacet(ctx context.Context, desc *catalog.Descriptor, attr, term string) ([]search.FacetValue, error) {
	if !desc.Settings.IsFacetSearchable(attr) {
		return nil, fmt.Errorf("attribute %q of index %q is not facet-searchable", attr, desc.Index)
	}
	return e.backend.SearchFacetValues(ctx, desc.Index, attr, term)
}

// AnimalPickUpLocations searches the values of the pick-up location facet,
// for autocompletion.
func (e *Executor) AnimalPickUpLocations(ctx context.Context, term string) ([]search.FacetValue, error) {
	values, err := e.searchFacet(ctx, catalog.Animals, catalog.AttrPickUpLocation, term)
	if err != nil {
		return nil, fmt.Errorf("search pick-up locations: %w", err)
	}
	return values, nil
}

// FosterFamilyCities searches the values of the foster-family city facet.
func (e *Executor) FosterFamilyCities(ctx context.Context, term string) ([]search.FacetValue, error) {
	values, err := e.searchFacet(ctx, catalog.FosterFamilies, catalog.AttrCity, term)
	if err != nil {
		return nil, fmt.Errorf("search foster-family cities: %w", err)
	}
	return values, nil
}
