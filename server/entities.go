package server

import (
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/shelterhq/refuge/catalog"
	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/query"
	"github.com/shelterhq/refuge/search"
)

type breedSearchQuery struct {
	Q       string   `form:"q"`
	Page    int64    `form:"page"`
	Species []string `form:"species"`
}

func (s *Server) searchBreeds(c *gin.Context) {
	var q breedSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	// An empty unfiltered term is the canonical alphabetical listing; it comes
	// straight from the record store instead of the index.
	if q.Q == "" && len(q.Species) == 0 {
		result, err := listFromStore(c, s.syncs[catalog.Breeds.Table], query.BreedHitsPerPage, q.Page,
			func(r data.Record) query.BreedHit {
				b := r.(*catalog.Breed)
				return query.BreedHit{ID: b.ID, Name: b.Name, HighlightedName: b.Name, Species: string(b.Species)}
			})
		if err != nil {
			s.log.WithError(err).Error("breed listing failed")
			internalError(c, "breed listing failed")
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := s.executor.SearchBreeds(c.Request.Context(), query.BreedRequest{
		Term: q.Q, Page: q.Page, Species: q.Species,
	})
	if err != nil {
		s.log.WithError(err).Error("breed search failed")
		internalError(c, "breed search failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) searchColors(c *gin.Context) {
	var q struct {
		Q    string `form:"q"`
		Page int64  `form:"page"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	if q.Q == "" {
		result, err := listFromStore(c, s.syncs[catalog.Colors.Table], query.ColorHitsPerPage, q.Page,
			func(r data.Record) query.ColorHit {
				col := r.(*catalog.Color)
				return query.ColorHit{ID: col.ID, Name: col.Name, HighlightedName: col.Name}
			})
		if err != nil {
			s.log.WithError(err).Error("color listing failed")
			internalError(c, "color listing failed")
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := s.executor.SearchColors(c.Request.Context(), query.ColorRequest{Term: q.Q, Page: q.Page})
	if err != nil {
		s.log.WithError(err).Error("color search failed")
		internalError(c, "color search failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// listFromStore serves one page of the canonical store ordering mapped into
// the same result shape search queries produce.
func listFromStore[T any](c *gin.Context, syn synchronizer, hitsPerPage, page int64,
	mapRecord func(data.Record) T) (*search.Result[T], error) {

	if page < 0 {
		page = 0
	}
	records, err := syn.Store().List(c.Request.Context(), data.ListOptions{
		SortField: syn.Descriptor().SortField,
	})
	if err != nil {
		return nil, err
	}

	total := int64(len(records))
	pageCount := (total + hitsPerPage - 1) / hitsPerPage
	start := page * hitsPerPage
	if start > total {
		start = total
	}
	end := start + hitsPerPage
	if end > total {
		end = total
	}

	hits := make([]T, 0, end-start)
	for _, rec := range records[start:end] {
		hits = append(hits, mapRecord(rec))
	}
	return &search.Result[T]{
		Hits:           hits,
		HitsTotalCount: total,
		Page:           page,
		PageCount:      pageCount,
	}, nil
}

type fosterFamilySearchQuery struct {
	Q             string   `form:"q"`
	Page          int64    `form:"page"`
	Cities        []string `form:"city"`
	SpeciesToHost []string `form:"speciesToHost"`
}

func (s *Server) searchFosterFamilies(c *gin.Context) {
	var q fosterFamilySearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	result, err := s.executor.SearchFosterFamilies(c.Request.Context(), query.FosterFamilyRequest{
		Term: q.Q, Page: q.Page, Cities: q.Cities, SpeciesToHost: q.SpeciesToHost,
	})
	if err != nil {
		s.log.WithError(err).Error("foster family search failed")
		internalError(c, "foster family search failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) fosterFamilyCities(c *gin.Context) {
	values, err := s.executor.FosterFamilyCities(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.log.WithError(err).Error("city search failed")
		internalError(c, "city search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": values})
}

type userSearchQuery struct {
	Q        string   `form:"q"`
	Page     int64    `form:"page"`
	Groups   []string `form:"group"`
	Disabled *bool    `form:"disabled"`
}

func (s *Server) searchUsers(c *gin.Context) {
	var q userSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	result, err := s.executor.SearchUsers(c.Request.Context(), query.UserRequest{
		Term: q.Q, Page: q.Page, Groups: q.Groups, IsDisabled: q.Disabled,
	})
	if err != nil {
		s.log.WithError(err).Error("user search failed")
		internalError(c, "user search failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) searchEvents(c *gin.Context) {
	var q struct {
		Q           string `form:"q"`
		Page        int64  `form:"page"`
		VisibleOnly bool   `form:"visibleOnly"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	result, err := s.executor.SearchEvents(c.Request.Context(), query.EventRequest{
		Term: q.Q, Page: q.Page, VisibleOnly: q.VisibleOnly,
	})
	if err != nil {
		s.log.WithError(err).Error("event search failed")
		internalError(c, "event search failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// reindex rebuilds one index, or every index when the table is "all". Rebuilds
// of distinct indices are independent and run concurrently.
func (s *Server) reindex(c *gin.Context) {
	table := c.Param("table")

	var targets []*catalog.Descriptor
	if table == "all" {
		targets = catalog.All()
	} else {
		desc, ok := catalog.ByTable(table)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown table: " + table})
			return
		}
		targets = []*catalog.Descriptor{desc}
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		rebuilt []string
		failed  []string
	)
	for _, desc := range targets {
		syn, ok := s.syncs[desc.Table]
		if !ok {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := syn.RebuildAll(c.Request.Context())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.WithError(err).WithField("index", syn.Descriptor().Index).Error("rebuild failed")
				failed = append(failed, syn.Descriptor().Table)
				return
			}
			rebuilt = append(rebuilt, syn.Descriptor().Table)
		}()
	}
	wg.Wait()

	sort.Strings(rebuilt)
	if len(failed) > 0 {
		sort.Strings(failed)
		c.JSON(http.StatusInternalServerError, gin.H{"rebuilt": rebuilt, "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rebuilt": rebuilt})
}

// synchronizer is the slice of the indexer surface the listing bypass needs.
type synchronizer interface {
	Store() data.Store
	Descriptor() *catalog.Descriptor
}
