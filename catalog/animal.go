package catalog

import (
	"time"

	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/search"
)

// Species of an animal.
type Species string

const (
	SpeciesBird    Species = "BIRD"
	SpeciesCat     Species = "CAT"
	SpeciesDog     Species = "DOG"
	SpeciesReptile Species = "REPTILE"
	SpeciesRodent  Species = "RODENT"
)

// AnimalStatus is the adoption status of an animal.
type AnimalStatus string

const (
	StatusAdopted        AnimalStatus = "ADOPTED"
	StatusDeceased       AnimalStatus = "DECEASED"
	StatusFree           AnimalStatus = "FREE"
	StatusOpenToAdoption AnimalStatus = "OPEN_TO_ADOPTION"
	StatusReserved       AnimalStatus = "RESERVED"
	StatusUnavailable    AnimalStatus = "UNAVAILABLE"
)

// Animal is the authoritative animal record. Only whitelisted fields reach
// the index; descriptive fields stay in the record store.
type Animal struct {
	ID             string       `bson:"_id" json:"id"`
	Name           string       `bson:"name" json:"name" binding:"required"`
	Alias          string       `bson:"alias,omitempty" json:"alias,omitempty"`
	Species        Species      `bson:"species" json:"species" binding:"required"`
	BreedID        string       `bson:"breedId,omitempty" json:"breedId,omitempty"`
	ColorID        string       `bson:"colorId,omitempty" json:"colorId,omitempty"`
	Status         AnimalStatus `bson:"status" json:"status" binding:"required"`
	BirthDate      time.Time    `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	PickUpDate     time.Time    `bson:"pickUpDate,omitempty" json:"pickUpDate,omitempty"`
	PickUpLocation string       `bson:"pickUpLocation,omitempty" json:"pickUpLocation,omitempty"`
	Description    string       `bson:"description,omitempty" json:"description,omitempty"`
	IsSterilized   bool         `bson:"isSterilized" json:"isSterilized"`
	FosterFamilyID string       `bson:"fosterFamilyId,omitempty" json:"fosterFamilyId,omitempty"`
}

func (a *Animal) ObjectID() string { return a.ID }

func (a *Animal) Fields() map[string]any {
	return map[string]any{
		"name":           a.Name,
		"alias":          a.Alias,
		"species":        string(a.Species),
		"breedId":        a.BreedID,
		"colorId":        a.ColorID,
		"status":         string(a.Status),
		"birthDate":      a.BirthDate,
		"pickUpDate":     a.PickUpDate,
		"pickUpLocation": a.PickUpLocation,
		"description":    a.Description,
		"isSterilized":   a.IsSterilized,
		"fosterFamilyId": a.FosterFamilyID,
	}
}

// Document attribute names of the animals index referenced outside the
// descriptor (range filters, facet search).
const (
	AttrBirthdateTimestamp  = "birthdateTimestamp"
	AttrPickUpDateTimestamp = "pickUpDateTimestamp"
	AttrPickUpLocation      = "pickUpLocation"
)

// Animals is the animal entity descriptor.
var Animals = &Descriptor{
	Table:      "animal",
	Index:      "animals",
	Collection: "animals",
	SortField:  "name",
	Fields: []FieldSpec{
		{Record: "name", Doc: "name"},
		{Record: "alias", Doc: "alias"},
		{Record: "species", Doc: "species"},
		{Record: "status", Doc: "status"},
		{Record: "pickUpLocation", Doc: AttrPickUpLocation},
		{Record: "pickUpDate", Doc: AttrPickUpDateTimestamp, Time: true},
		{Record: "birthDate", Doc: AttrBirthdateTimestamp, Time: true},
	},
	Settings: search.IndexSettings{
		Searchable: []string{"name", "alias"},
		Facets: []search.Facet{
			{Attribute: "species"},
			{Attribute: "status"},
			{Attribute: AttrPickUpLocation, Mode: search.FacetSearchable},
			{Attribute: AttrPickUpDateTimestamp, Mode: search.FacetFilterOnly},
			{Attribute: AttrBirthdateTimestamp, Mode: search.FacetFilterOnly},
		},
		Ranking:      []search.Rank{{Attribute: AttrPickUpDateTimestamp, Desc: true}},
		PreTag:       PreTag,
		PostTag:      PostTag,
		MaxFacetHits: 20,
	},
	New: func() data.Record { return &Animal{} },
}
