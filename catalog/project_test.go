package catalog

import (
	"testing"
	"time"

	"github.com/shelterhq/refuge/search"
)

func TestProject_WhitelistAndTimestamps(t *testing.T) {
	pickUp := time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC)
	birth := time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)
	animal := &Animal{
		ID:             "a1",
		Name:           "Rex",
		Alias:          "Rexou",
		Species:        SpeciesDog,
		Status:         StatusOpenToAdoption,
		BirthDate:      birth,
		PickUpDate:     pickUp,
		PickUpLocation: "Meaux",
		Description:    "very good boy, not indexed",
	}

	doc := Animals.Project(animal)

	if doc.ID() != "a1" {
		t.Fatalf("objectID = %q, want a1", doc.ID())
	}
	if doc["name"] != "Rex" || doc["alias"] != "Rexou" {
		t.Fatalf("unexpected name/alias in %v", doc)
	}
	if doc[AttrPickUpDateTimestamp] != pickUp.UnixMilli() {
		t.Fatalf("pickUpDate = %v, want epoch millis %d", doc[AttrPickUpDateTimestamp], pickUp.UnixMilli())
	}
	if doc[AttrBirthdateTimestamp] != birth.UnixMilli() {
		t.Fatalf("birthdate = %v, want epoch millis %d", doc[AttrBirthdateTimestamp], birth.UnixMilli())
	}
	if _, leaked := doc["description"]; leaked {
		t.Fatal("non-whitelisted record field leaked into the document")
	}
	if _, leaked := doc["pickUpDate"]; leaked {
		t.Fatal("original date representation must not be stored in the document")
	}
}

func TestProject_OmitsMissingOptionalFields(t *testing.T) {
	animal := &Animal{ID: "a2", Name: "Mystery", Species: SpeciesCat, Status: StatusReserved}

	doc := Animals.Project(animal)

	for _, attr := range []string{"alias", AttrPickUpLocation, AttrPickUpDateTimestamp, AttrBirthdateTimestamp} {
		if _, present := doc[attr]; present {
			t.Fatalf("missing optional field %q must be omitted, got %v", attr, doc[attr])
		}
	}
}

func TestProjectPartial_OnlyChangedFields(t *testing.T) {
	animal := &Animal{
		ID:      "a3",
		Name:    "Luna",
		Alias:   "Lulu",
		Species: SpeciesCat,
		Status:  StatusAdopted,
	}

	doc := Animals.ProjectPartial(animal, []string{"name"})

	want := search.Document{search.ObjectID: "a3", "name": "Luna"}
	if len(doc) != len(want) {
		t.Fatalf("partial document = %v, want exactly %v", doc, want)
	}
	for k, v := range want {
		if doc[k] != v {
			t.Fatalf("partial document[%q] = %v, want %v", k, doc[k], v)
		}
	}
}

func TestProjectPartial_ClearedFieldEmitsNull(t *testing.T) {
	// Alias was just cleared; its current value projects to empty.
	animal := &Animal{ID: "a4", Name: "Rex", Species: SpeciesDog, Status: StatusAdopted}

	doc := Animals.ProjectPartial(animal, []string{"alias"})

	if len(doc) != 2 {
		t.Fatalf("partial document = %v, want exactly objectID and alias", doc)
	}
	v, present := doc["alias"]
	if !present || v != nil {
		t.Fatalf("cleared field must project to an explicit nil, got %v", doc)
	}

	// Full projections keep omitting empty fields; only partial payloads need
	// the explicit null to clear a merged attribute.
	if _, present := Animals.Project(animal)["alias"]; present {
		t.Fatal("full projection must omit empty optional fields")
	}
}

func TestDescriptors_TableLookup(t *testing.T) {
	for _, d := range All() {
		got, ok := ByTable(d.Table)
		if !ok || got != d {
			t.Fatalf("ByTable(%q) = %v, %v", d.Table, got, ok)
		}
	}
	if _, ok := ByTable("nope"); ok {
		t.Fatal("unknown table must not resolve")
	}
}
