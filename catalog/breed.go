package catalog

import (
	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/search"
)

// Breed is an animal breed record.
type Breed struct {
	ID      string  `bson:"_id" json:"id"`
	Name    string  `bson:"name" json:"name" binding:"required"`
	Species Species `bson:"species" json:"species" binding:"required"`
}

func (b *Breed) ObjectID() string { return b.ID }

func (b *Breed) Fields() map[string]any {
	return map[string]any{
		"name":    b.Name,
		"species": string(b.Species),
	}
}

var Breeds = &Descriptor{
	Table:      "breed",
	Index:      "breeds",
	Collection: "breeds",
	SortField:  "name",
	Fields: []FieldSpec{
		{Record: "name", Doc: "name"},
		{Record: "species", Doc: "species"},
	},
	Settings: search.IndexSettings{
		Searchable:   []string{"name"},
		Facets:       []search.Facet{{Attribute: "species"}},
		PreTag:       PreTag,
		PostTag:      PostTag,
		MaxFacetHits: 20,
	},
	New: func() data.Record { return &Breed{} },
}
