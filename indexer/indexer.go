// Package indexer keeps a named search index consistent with the record
// store. The record store is the source of truth: every operation mutates it
// first and mirrors the change into the index second, with no transaction
// between the two. A failed index write leaves the index stale until the
// next successful write or a RebuildAll; it is logged and surfaced, never
// retried.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/shelterhq/refuge/catalog"
	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/search"
)

// rebuildBatchSize bounds one bulk save call during a rebuild.
const rebuildBatchSize = 500

// Synchronizer mirrors one entity type into its search index.
type Synchronizer struct {
	store   data.Store
	backend search.Backend
	desc    *catalog.Descriptor
	log     *logrus.Logger
}

// New creates a synchronizer for the given entity descriptor.
func New(store data.Store, backend search.Backend, desc *catalog.Descriptor, log *logrus.Logger) *Synchronizer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Synchronizer{store: store, backend: backend, desc: desc, log: log}
}

// Descriptor returns the entity descriptor this synchronizer serves.
func (s *Synchronizer) Descriptor() *catalog.Descriptor { return s.desc }

// Store returns the record store backing this synchronizer.
func (s *Synchronizer) Store() data.Store { return s.store }

// Configure pushes the declarative index settings. Safe to repeat with
// identical arguments.
func (s *Synchronizer) Configure(ctx context.Context) error {
	if err := s.backend.Configure(ctx, s.desc.Index, s.desc.Settings); err != nil {
		return fmt.Errorf("configure index %s: %w", s.desc.Index, err)
	}
	return nil
}

// RebuildAll clears the index, then re-projects and bulk-writes a document
// for every current record. Not atomic: the index is empty between the clear
// and the last bulk write, so this must not run on the hot path. A bulk
// failure leaves the index partially filled and the rebuild must be re-run
// to completion; there is no resume-from-checkpoint.
func (s *Synchronizer) RebuildAll(ctx context.Context) error {
	if err := s.Configure(ctx); err != nil {
		return err
	}
	if err := s.backend.Clear(ctx, s.desc.Index); err != nil {
		return fmt.Errorf("clear index %s: %w", s.desc.Index, err)
	}

	records, err := s.store.List(ctx, data.ListOptions{SortField: s.desc.SortField})
	if err != nil {
		return fmt.Errorf("list %s records: %w", s.desc.Table, err)
	}

	docs := make([]search.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, s.desc.Project(rec))
	}
	for start := 0; start < len(docs); start += rebuildBatchSize {
		end := start + rebuildBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := s.backend.SaveDocuments(ctx, s.desc.Index, docs[start:end]); err != nil {
			return fmt.Errorf("bulk save into %s: %w", s.desc.Index, err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"index":     s.desc.Index,
		"documents": len(docs),
	}).Info("index rebuilt")
	return nil
}

// Create writes the record to the primary store, then projects and writes
// one document. An index failure is reported to the caller but never rolls
// back the record write.
func (s *Synchronizer) Create(ctx context.Context, rec data.Record) error {
	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("store %s record: %w", s.desc.Table, err)
	}
	doc := s.desc.Project(rec)
	if err := s.backend.SaveDocuments(ctx, s.desc.Index, []search.Document{doc}); err != nil {
		s.logStale(rec.ObjectID(), err)
		return fmt.Errorf("index %s document: %w", s.desc.Index, err)
	}
	return nil
}

// Update applies the given record fields, then sends a partial index update
// containing only the document attributes whose source field actually
// changed, plus the objectID; an indexed field changed to its empty value is
// sent as an explicit null so the engine clears it. A missing record fails
// before any index call. An update where no field differs from the stored
// value performs no store write and no index write at all.
func (s *Synchronizer) Update(ctx context.Context, id string, fields map[string]any) (data.Record, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load %s record: %w", s.desc.Table, err)
	}

	changed := changedFields(current.Fields(), fields)
	if len(changed) == 0 {
		return current, nil
	}

	updated, err := s.store.Update(ctx, id, changed)
	if err != nil {
		return nil, fmt.Errorf("update %s record: %w", s.desc.Table, err)
	}

	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	doc := s.desc.ProjectPartial(updated, names)
	if len(doc) > 1 { // at least one changed whitelisted attribute
		if err := s.backend.PartialUpdate(ctx, s.desc.Index, doc); err != nil {
			s.logStale(id, err)
			return updated, fmt.Errorf("partial update in %s: %w", s.desc.Index, err)
		}
	}
	return updated, nil
}

// Delete removes the record, then the document with matching objectID. A
// missing record is tolerated and the document delete still runs, so an
// orphaned document can never persist indefinitely. Idempotent.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, data.ErrNotFound) {
		return fmt.Errorf("delete %s record: %w", s.desc.Table, err)
	}
	if err := s.backend.DeleteDocument(ctx, s.desc.Index, id); err != nil {
		s.logStale(id, err)
		return fmt.Errorf("delete from %s: %w", s.desc.Index, err)
	}
	return nil
}

func (s *Synchronizer) logStale(id string, err error) {
	s.log.WithFields(logrus.Fields{
		"index":    s.desc.Index,
		"objectID": id,
	}).WithError(err).Error("index write failed, index is stale until the next successful write or rebuild")
}

// changedFields keeps the requested fields that actually differ from the
// stored record view.
func changedFields(current, requested map[string]any) map[string]any {
	changed := make(map[string]any, len(requested))
	for name, value := range requested {
		if !reflect.DeepEqual(current[name], value) {
			changed[name] = value
		}
	}
	return changed
}
