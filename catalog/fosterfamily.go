package catalog

import (
	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/search"
)

// FosterFamily is a host-family record.
type FosterFamily struct {
	ID            string    `bson:"_id" json:"id"`
	DisplayName   string    `bson:"displayName" json:"displayName" binding:"required"`
	City          string    `bson:"city,omitempty" json:"city,omitempty"`
	ZipCode       string    `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	SpeciesToHost []Species `bson:"speciesToHost,omitempty" json:"speciesToHost,omitempty"`
}

func (f *FosterFamily) ObjectID() string { return f.ID }

func (f *FosterFamily) Fields() map[string]any {
	species := make([]string, 0, len(f.SpeciesToHost))
	for _, s := range f.SpeciesToHost {
		species = append(species, string(s))
	}
	return map[string]any{
		"displayName":   f.DisplayName,
		"city":          f.City,
		"zipCode":       f.ZipCode,
		"email":         f.Email,
		"speciesToHost": species,
	}
}

// AttrCity is the facet attribute backing city autocomplete.
const AttrCity = "city"

var FosterFamilies = &Descriptor{
	Table:      "fosterFamily",
	Index:      "fosterFamily",
	Collection: "fosterFamilies",
	SortField:  "displayName",
	Fields: []FieldSpec{
		{Record: "displayName", Doc: "displayName"},
		{Record: "city", Doc: AttrCity},
		{Record: "zipCode", Doc: "zipCode"},
		{Record: "speciesToHost", Doc: "speciesToHost"},
	},
	Settings: search.IndexSettings{
		Searchable: []string{"displayName", "city", "zipCode"},
		Facets: []search.Facet{
			{Attribute: AttrCity, Mode: search.FacetSearchable},
			{Attribute: "speciesToHost"},
		},
		PreTag:       PreTag,
		PostTag:      PostTag,
		MaxFacetHits: 20,
	},
	New: func() data.Record { return &FosterFamily{} },
}
