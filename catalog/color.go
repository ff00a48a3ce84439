package catalog

import (
	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/search"
)

// Color is a coat color record.
type Color struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name" binding:"required"`
}

func (c *Color) ObjectID() string { return c.ID }

func (c *Color) Fields() map[string]any {
	return map[string]any{"name": c.Name}
}

var Colors = &Descriptor{
	Table:      "color",
	Index:      "colors",
	Collection: "colors",
	SortField:  "name",
	Fields: []FieldSpec{
		{Record: "name", Doc: "name"},
	},
	Settings: search.IndexSettings{
		Searchable:   []string{"name"},
		PreTag:       PreTag,
		PostTag:      PostTag,
		MaxFacetHits: 20,
	},
	New: func() data.Record { return &Color{} },
}
