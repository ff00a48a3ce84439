package query

import (
	"time"

	"github.com/shelterhq/refuge/search"
)

// AnimalHit is one animal search result. Highlighted fields always carry a
// value: the engine's highlight fragment when present, the raw field
// otherwise.
type AnimalHit struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	HighlightedName string    `json:"highlightedName"`
	Alias           string    `json:"alias,omitempty"`
	Species         string    `json:"species"`
	Status          string    `json:"status"`
	PickUpLocation  string    `json:"pickUpLocation,omitempty"`
	PickUpDate      time.Time `json:"pickUpDate,omitempty"`
}

func mapAnimalHit(h search.RawHit) AnimalHit {
	return AnimalHit{
		ID:              h.String(search.ObjectID),
		Name:            h.String("name"),
		HighlightedName: h.HighlightedOrRaw("name"),
		Alias:           h.String("alias"),
		Species:         h.String("species"),
		Status:          h.String("status"),
		PickUpLocation:  h.String("pickUpLocation"),
		PickUpDate:      h.Time("pickUpDateTimestamp"),
	}
}

// BreedHit is one breed search result.
type BreedHit struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	HighlightedName string `json:"highlightedName"`
	Species         string `json:"species"`
}

func mapBreedHit(h search.RawHit) BreedHit {
	return BreedHit{
		ID:              h.String(search.ObjectID),
		Name:            h.String("name"),
		HighlightedName: h.HighlightedOrRaw("name"),
		Species:         h.String("species"),
	}
}

// ColorHit is one color search result.
type ColorHit struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	HighlightedName string `json:"highlightedName"`
}

func mapColorHit(h search.RawHit) ColorHit {
	return ColorHit{
		ID:              h.String(search.ObjectID),
		Name:            h.String("name"),
		HighlightedName: h.HighlightedOrRaw("name"),
	}
}

// FosterFamilyHit is one foster-family search result.
type FosterFamilyHit struct {
	ID                     string   `json:"id"`
	DisplayName            string   `json:"displayName"`
	HighlightedDisplayName string   `json:"highlightedDisplayName"`
	City                   string   `json:"city,omitempty"`
	ZipCode                string   `json:"zipCode,omitempty"`
	SpeciesToHost          []string `json:"speciesToHost,omitempty"`
}

func mapFosterFamilyHit(h search.RawHit) FosterFamilyHit {
	return FosterFamilyHit{
		ID:                     h.String(search.ObjectID),
		DisplayName:            h.String("displayName"),
		HighlightedDisplayName: h.HighlightedOrRaw("displayName"),
		City:                   h.String("city"),
		ZipCode:                h.String("zipCode"),
		SpeciesToHost:          h.StringSlice("speciesToHost"),
	}
}

// UserHit is one back-office user search result.
type UserHit struct {
	ID                     string   `json:"id"`
	DisplayName            string   `json:"displayName"`
	HighlightedDisplayName string   `json:"highlightedDisplayName"`
	Email                  string   `json:"email"`
	HighlightedEmail       string   `json:"highlightedEmail"`
	Groups                 []string `json:"groups,omitempty"`
	IsDisabled             bool     `json:"isDisabled"`
}

func mapUserHit(h search.RawHit) UserHit {
	return UserHit{
		ID:                     h.String(search.ObjectID),
		DisplayName:            h.String("displayName"),
		HighlightedDisplayName: h.HighlightedOrRaw("displayName"),
		Email:                  h.String("email"),
		HighlightedEmail:       h.HighlightedOrRaw("email"),
		Groups:                 h.StringSlice("groups"),
		IsDisabled:             h.Bool("isDisabled"),
	}
}

// EventHit is one event search result.
type EventHit struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	HighlightedTitle string    `json:"highlightedTitle"`
	Location         string    `json:"location,omitempty"`
	StartDate        time.Time `json:"startDate,omitempty"`
	EndDate          time.Time `json:"endDate,omitempty"`
	IsVisible        bool      `json:"isVisible"`
}

func mapEventHit(h search.RawHit) EventHit {
	return EventHit{
		ID:               h.String(search.ObjectID),
		Title:            h.String("title"),
		HighlightedTitle: h.HighlightedOrRaw("title"),
		Location:         h.String("location"),
		StartDate:        h.Time("startDateTimestamp"),
		EndDate:          h.Time("endDateTimestamp"),
		IsVisible:        h.Bool("isVisible"),
	}
}
