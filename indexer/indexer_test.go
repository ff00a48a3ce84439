package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelterhq/refuge/catalog"
	"github.com/shelterhq/refuge/data"
	storemem "github.com/shelterhq/refuge/data/memory"
	"github.com/shelterhq/refuge/search"
	searchmem "github.com/shelterhq/refuge/search/memory"
)

func newSynchronizer(t *testing.T) (*Synchronizer, *storemem.Store, *searchmem.Backend) {
	t.Helper()
	store := storemem.NewStore()
	backend := searchmem.NewBackend()
	return New(store, backend, catalog.Animals, nil), store, backend
}

func animal(id, name string) *catalog.Animal {
	return &catalog.Animal{
		ID:             id,
		Name:           name,
		Species:        catalog.SpeciesDog,
		Status:         catalog.StatusOpenToAdoption,
		PickUpLocation: "Meaux",
		PickUpDate:     time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreate_WritesRecordThenDocument(t *testing.T) {
	ctx := context.Background()
	sync, store, backend := newSynchronizer(t)

	if err := sync.Create(ctx, animal("a1", "Rex")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Get(ctx, "a1"); err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	doc, ok := backend.Documents("animals")["a1"]
	if !ok {
		t.Fatal("document not indexed")
	}
	if doc["name"] != "Rex" {
		t.Fatalf("document = %v", doc)
	}
}

func TestUpdate_PartialPayloadMinimality(t *testing.T) {
	ctx := context.Background()
	sync, _, backend := newSynchronizer(t)
	if err := sync.Create(ctx, animal("a1", "Rex")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Re-send every field, only the name actually differs.
	fields := animal("a1", "Max").Fields()
	if _, err := sync.Update(ctx, "a1", fields); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	payload := backend.LastPartialUpdate()
	if len(payload) != 2 {
		t.Fatalf("partial payload = %v, want exactly objectID and name", payload)
	}
	if payload[search.ObjectID] != "a1" || payload["name"] != "Max" {
		t.Fatalf("partial payload = %v", payload)
	}
}

func TestUpdate_ClearsIndexedField(t *testing.T) {
	ctx := context.Background()
	sync, store, backend := newSynchronizer(t)
	a := animal("a1", "Rex")
	a.Alias = "Rexou"
	if err := sync.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := sync.Update(ctx, "a1", map[string]any{"alias": ""}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	rec, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Fields()["alias"] != "" {
		t.Fatalf("record alias = %q, want cleared", rec.Fields()["alias"])
	}

	// The cleared field must reach the engine as an explicit null, never be
	// dropped from the payload: partial updates merge, so omission would keep
	// the stale value indefinitely.
	payload := backend.LastPartialUpdate()
	if len(payload) != 2 {
		t.Fatalf("partial payload = %v, want exactly objectID and alias", payload)
	}
	if v, ok := payload["alias"]; !ok || v != nil {
		t.Fatalf("cleared field must be sent as null, payload = %v", payload)
	}
	if v, ok := backend.Documents("animals")["a1"]["alias"]; ok {
		t.Fatalf("index still holds alias %v after the record cleared it", v)
	}
}

func TestUpdate_NoOpSuppressesIndexWrite(t *testing.T) {
	ctx := context.Background()
	sync, _, backend := newSynchronizer(t)
	if err := sync.Create(ctx, animal("a1", "Rex")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	partialBefore := backend.Calls("partial")
	saveBefore := backend.Calls("save")

	if _, err := sync.Update(ctx, "a1", animal("a1", "Rex").Fields()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if backend.Calls("partial") != partialBefore || backend.Calls("save") != saveBefore {
		t.Fatal("no-op update must not call the index write at all")
	}
}

func TestUpdate_NonIndexedFieldSkipsIndexWrite(t *testing.T) {
	ctx := context.Background()
	sync, store, backend := newSynchronizer(t)
	if err := sync.Create(ctx, animal("a1", "Rex")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	before := backend.Calls("partial")

	if _, err := sync.Update(ctx, "a1", map[string]any{"description": "shy at first"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if backend.Calls("partial") != before {
		t.Fatal("a change outside the whitelist must not reach the index")
	}
	rec, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Fields()["description"] != "shy at first" {
		t.Fatal("record update must still be applied")
	}
}

func TestUpdate_MissingRecordFailsBeforeIndexCall(t *testing.T) {
	ctx := context.Background()
	sync, _, backend := newSynchronizer(t)

	_, err := sync.Update(ctx, "ghost", map[string]any{"name": "X"})
	if !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
	if backend.Calls("partial") != 0 || backend.Calls("save") != 0 {
		t.Fatal("update of a missing record must not touch the index")
	}
}

func TestDelete_Idempotent(t *testing.T) {
	ctx := context.Background()
	sync, _, backend := newSynchronizer(t)
	if err := sync.Create(ctx, animal("a1", "Rex")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := sync.Delete(ctx, "a1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Second delete: record is gone, the index delete must still run and the
	// call must not fail.
	if err := sync.Delete(ctx, "a1"); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if _, ok := backend.Documents("animals")["a1"]; ok {
		t.Fatal("document must not survive delete")
	}
	if backend.Calls("delete") != 2 {
		t.Fatalf("index delete ran %d times, want 2 (cleanup attempted even without a record)", backend.Calls("delete"))
	}
}

func TestDelete_RemovesOrphanedDocument(t *testing.T) {
	ctx := context.Background()
	sync, _, backend := newSynchronizer(t)

	// Orphaned document with no backing record.
	err := backend.SaveDocuments(ctx, "animals", []search.Document{{search.ObjectID: "orphan", "name": "Ghost"}})
	if err != nil {
		t.Fatalf("SaveDocuments() error = %v", err)
	}

	if err := sync.Delete(ctx, "orphan"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := backend.Documents("animals")["orphan"]; ok {
		t.Fatal("orphaned document must not persist")
	}
}

func TestRebuildAll_Completeness(t *testing.T) {
	ctx := context.Background()
	sync, store, backend := newSynchronizer(t)

	for _, a := range []*catalog.Animal{animal("a1", "Rex"), animal("a2", "Luna"), animal("a3", "Milo")} {
		if err := store.Put(ctx, a); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	// Stale document that no longer has a record behind it.
	err := backend.SaveDocuments(ctx, "animals", []search.Document{{search.ObjectID: "stale", "name": "Old"}})
	if err != nil {
		t.Fatalf("SaveDocuments() error = %v", err)
	}

	if err := sync.RebuildAll(ctx); err != nil {
		t.Fatalf("RebuildAll() error = %v", err)
	}

	docs := backend.Documents("animals")
	if len(docs) != 3 {
		t.Fatalf("index holds %d documents, want 3", len(docs))
	}
	for _, id := range []string{"a1", "a2", "a3"} {
		if _, ok := docs[id]; !ok {
			t.Fatalf("record %s missing from rebuilt index", id)
		}
	}
	if _, ok := docs["stale"]; ok {
		t.Fatal("rebuild must remove documents without a current record")
	}
	if backend.Calls("configure") == 0 {
		t.Fatal("rebuild must (re)apply index settings")
	}
}
