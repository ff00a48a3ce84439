package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shelterhq/refuge/catalog"
	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/query"
)

type animalSearchQuery struct {
	Q               string   `form:"q"`
	Page            int64    `form:"page"`
	Species         []string `form:"species"`
	Statuses        []string `form:"status"`
	PickUpLocations []string `form:"pickUpLocation"`
	AgeSpecies      string   `form:"ageSpecies"`
	Age             string   `form:"age"`
}

func (s *Server) searchAnimals(c *gin.Context) {
	var q animalSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	req := query.AnimalRequest{
		Term:            q.Q,
		Page:            q.Page,
		Species:         q.Species,
		Statuses:        q.Statuses,
		PickUpLocations: q.PickUpLocations,
	}
	// The age bucket only means something relative to a species.
	if q.Age != "" && q.AgeSpecies != "" {
		req.Age = &query.AnimalAgeSelection{
			Species: catalog.Species(q.AgeSpecies),
			Bucket:  catalog.AgeBucket(q.Age),
		}
	}

	result, err := s.executor.SearchAnimals(c.Request.Context(), req)
	if err != nil {
		s.log.WithError(err).Error("animal search failed")
		internalError(c, "animal search failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) animalPickUpLocations(c *gin.Context) {
	values, err := s.executor.AnimalPickUpLocations(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.log.WithError(err).Error("pick-up location search failed")
		internalError(c, "pick-up location search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": values})
}

func (s *Server) getAnimal(c *gin.Context) {
	rec, err := s.syncs[catalog.Animals.Table].Store().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "animal not found"})
			return
		}
		s.log.WithError(err).Error("failed to load animal")
		internalError(c, "failed to load animal")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) createAnimal(c *gin.Context) {
	var animal catalog.Animal
	if err := c.ShouldBindJSON(&animal); err != nil {
		badRequest(c, err)
		return
	}
	if animal.ID == "" {
		animal.ID = uuid.NewString()
	}

	if err := s.syncs[catalog.Animals.Table].Create(c.Request.Context(), &animal); err != nil {
		s.log.WithError(err).WithField("id", animal.ID).Error("failed to create animal")
		internalError(c, "failed to create animal")
		return
	}
	c.JSON(http.StatusCreated, &animal)
}

// animalPatch carries a partial animal update. Absent fields stay untouched.
type animalPatch struct {
	Name           *string               `json:"name"`
	Alias          *string               `json:"alias"`
	Species        *catalog.Species      `json:"species"`
	BreedID        *string               `json:"breedId"`
	ColorID        *string               `json:"colorId"`
	Status         *catalog.AnimalStatus `json:"status"`
	BirthDate      *time.Time            `json:"birthDate"`
	PickUpDate     *time.Time            `json:"pickUpDate"`
	PickUpLocation *string               `json:"pickUpLocation"`
	Description    *string               `json:"description"`
	IsSterilized   *bool                 `json:"isSterilized"`
	FosterFamilyID *string               `json:"fosterFamilyId"`
}

func (p *animalPatch) fields() map[string]any {
	fields := make(map[string]any)
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Alias != nil {
		fields["alias"] = *p.Alias
	}
	if p.Species != nil {
		fields["species"] = string(*p.Species)
	}
	if p.BreedID != nil {
		fields["breedId"] = *p.BreedID
	}
	if p.ColorID != nil {
		fields["colorId"] = *p.ColorID
	}
	if p.Status != nil {
		fields["status"] = string(*p.Status)
	}
	if p.BirthDate != nil {
		fields["birthDate"] = *p.BirthDate
	}
	if p.PickUpDate != nil {
		fields["pickUpDate"] = *p.PickUpDate
	}
	if p.PickUpLocation != nil {
		fields["pickUpLocation"] = *p.PickUpLocation
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.IsSterilized != nil {
		fields["isSterilized"] = *p.IsSterilized
	}
	if p.FosterFamilyID != nil {
		fields["fosterFamilyId"] = *p.FosterFamilyID
	}
	return fields
}

func (s *Server) updateAnimal(c *gin.Context) {
	var patch animalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	rec, err := s.syncs[catalog.Animals.Table].Update(c.Request.Context(), id, patch.fields())
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "animal not found"})
			return
		}
		s.log.WithError(err).WithField("id", id).Error("failed to update animal")
		internalError(c, "failed to update animal")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) deleteAnimal(c *gin.Context) {
	id := c.Param("id")
	if err := s.syncs[catalog.Animals.Table].Delete(c.Request.Context(), id); err != nil {
		s.log.WithError(err).WithField("id", id).Error("failed to delete animal")
		internalError(c, "failed to delete animal")
		return
	}
	c.Status(http.StatusNoContent)
}
