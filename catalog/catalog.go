// Package catalog defines the shelter's entity records and, for each entity,
// the descriptor driving search-index synchronization: which record fields
// are projected into the index (a whitelist, so new record fields never leak
// into the index by default), which of them are timestamps, and the
// declarative engine settings of the entity's index.
package catalog

import (
	"time"

	"github.com/shelterhq/refuge/data"
	"github.com/shelterhq/refuge/search"
)

// Highlight delimiters shared by every index.
const (
	PreTag  = "<mark>"
	PostTag = "</mark>"
)

// FieldSpec maps one record field onto one document attribute. Time fields
// are converted to epoch-millisecond integers for range filtering and custom
// ranking; the record's original representation is never stored in the
// document.
type FieldSpec struct {
	Record string
	Doc    string
	Time   bool
}

// Descriptor describes one entity type to the search layer.
type Descriptor struct {
	// Table is the entity name used by batch entry points (e.g. "animal").
	Table string
	// Index is the engine index name (plural entity, e.g. "animals").
	Index string
	// Collection is the record-store collection name.
	Collection string
	// SortField is the canonical list ordering field (ties broken by id).
	SortField string
	// Fields is the projection whitelist.
	Fields []FieldSpec
	// Settings is the declarative engine-side index configuration.
	Settings search.IndexSettings
	// New constructs an empty record for store decoding.
	New func() data.Record
}

// Project maps a record into its search document. It never fails: missing
// or empty optional fields are simply omitted from the document.
func (d *Descriptor) Project(r data.Record) search.Document {
	return d.project(r, nil)
}

// ProjectPartial projects only the document attributes whose source record
// field is listed in changed, plus the immutable objectID. Used for partial
// index updates to minimize write amplification. A changed field whose value
// projects to empty is emitted as an explicit nil: partial updates merge on
// the engine side, so omitting the attribute would keep its stale value.
func (d *Descriptor) ProjectPartial(r data.Record, changed []string) search.Document {
	set := make(map[string]bool, len(changed))
	for _, name := range changed {
		set[name] = true
	}
	return d.project(r, set)
}

func (d *Descriptor) project(r data.Record, changed map[string]bool) search.Document {
	fields := r.Fields()
	doc := search.Document{search.ObjectID: r.ObjectID()}
	for _, spec := range d.Fields {
		if changed != nil && !changed[spec.Record] {
			continue
		}
		if v, ok := docValue(fields[spec.Record], spec.Time); ok {
			doc[spec.Doc] = v
		} else if changed != nil {
			// Cleared field: null out the attribute instead of leaving the
			// old value merged in.
			doc[spec.Doc] = nil
		}
	}
	return doc
}

func docValue(v any, asTime bool) (any, bool) {
	if v == nil {
		return nil, false
	}
	if asTime {
		switch t := v.(type) {
		case time.Time:
			if t.IsZero() {
				return nil, false
			}
			return t.UTC().UnixMilli(), true
		case *time.Time:
			if t == nil || t.IsZero() {
				return nil, false
			}
			return t.UTC().UnixMilli(), true
		default:
			return nil, false
		}
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil, false
		}
		return t, true
	case []string:
		if len(t) == 0 {
			return nil, false
		}
		return t, true
	default:
		return v, true
	}
}

// All lists every entity descriptor, in rebuild order.
func All() []*Descriptor {
	return []*Descriptor{
		Animals,
		Breeds,
		Colors,
		FosterFamilies,
		Users,
		Events,
	}
}

// ByTable resolves a batch table name to its descriptor.
func ByTable(table string) (*Descriptor, bool) {
	for _, d := range All() {
		if d.Table == table {
			return d, true
		}
	}
	return nil, false
}
