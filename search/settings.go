package search

// FacetMode controls how a facet attribute participates in search.
type FacetMode int

const (
	// FacetDefault makes the attribute filterable and facet-countable.
	FacetDefault FacetMode = iota
	// FacetSearchable additionally allows facet-value search on the attribute.
	FacetSearchable
	// FacetFilterOnly excludes the attribute from facet-value search; it can
	// only appear in filter expressions (numeric ranges, flags).
	FacetFilterOnly
)

// Facet declares one facetable attribute of an index.
type Facet struct {
	Attribute string
	Mode      FacetMode
}

// Rank declares one custom-ranking attribute of an index.
type Rank struct {
	Attribute string
	Desc      bool
}

// IndexSettings is the declarative, engine-side configuration of one index:
// searchable attributes, facetable attributes, custom ranking, highlight
// delimiters and facet-search limits. Applying the same settings twice is a
// no-op on the engine side.
type IndexSettings struct {
	Searchable   []string
	Facets       []Facet
	Ranking      []Rank
	PreTag       string
	PostTag      string
	MaxFacetHits int64
}

// FacetAttributes returns the attributes of every facet, regardless of mode.
// All of them are filterable on the engine side.
func (s IndexSettings) FacetAttributes() []string {
	out := make([]string, 0, len(s.Facets))
	for _, f := range s.Facets {
		out = append(out, f.Attribute)
	}
	return out
}

// IsFacetSearchable reports whether facet-value search is allowed on the
// attribute: it must be a declared facet and not FacetFilterOnly.
func (s IndexSettings) IsFacetSearchable(attr string) bool {
	for _, f := range s.Facets {
		if f.Attribute == attr {
			return f.Mode != FacetFilterOnly
		}
	}
	return false
}
