package catalog

import (
	"time"

	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/search"
)

// Event is an association event record (adoption days, fundraisers).
type Event struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title" binding:"required"`
	Location    string    `bson:"location,omitempty" json:"location,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsVisible   bool      `bson:"isVisible" json:"isVisible"`
}

func (e *Event) ObjectID() string { return e.ID }

func (e *Event) Fields() map[string]any {
	return map[string]any{
		"title":       e.Title,
		"location":    e.Location,
		"description": e.Description,
		"startDate":   e.StartDate,
		"endDate":     e.EndDate,
		"isVisible":   e.IsVisible,
	}
}

var Events = &Descriptor{
	Table:      "event",
	Index:      "events",
	Collection: "events",
	SortField:  "title",
	Fields: []FieldSpec{
		{Record: "title", Doc: "title"},
		{Record: "location", Doc: "location"},
		{Record: "startDate", Doc: "startDateTimestamp", Time: true},
		{Record: "endDate", Doc: "endDateTimestamp", Time: true},
		{Record: "isVisible", Doc: "isVisible"},
	},
	Settings: search.IndexSettings{
		Searchable: []string{"title", "location"},
		Facets: []search.Facet{
			{Attribute: "isVisible", Mode: search.FacetFilterOnly},
			{Attribute: "startDateTimestamp", Mode: search.FacetFilterOnly},
			{Attribute: "endDateTimestamp", Mode: search.FacetFilterOnly},
		},
		Ranking:      []search.Rank{{Attribute: "startDateTimestamp", Desc: true}},
		PreTag:       PreTag,
		PostTag:      PostTag,
		MaxFacetHits: 20,
	},
	New: func() data.Record { return &Event{} },
}
