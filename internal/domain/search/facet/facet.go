// Package facet holds the filterable-dimension tallies derived from a
// result set.
package facet

// Count is one value→occurrences pair within a facet dimension.
type Count struct {
	value string
	count int
}

// NewCount creates a facet count.
func NewCount(value string, count int) Count {
	return Count{value: value, count: count}
}

// Value returns the facet value.
func (c Count) Value() string { return c.value }

// Count returns the number of result documents exhibiting the value.
func (c Count) Count() int { return c.count }

// Facets groups the tallies per dimension, each sorted by count descending.
type Facets struct {
	documentTypes []Count
	tags          []Count
}

// New creates a facet set.
func New(documentTypes, tags []Count) Facets {
	return Facets{documentTypes: documentTypes, tags: tags}
}

// DocumentTypes returns the per-type tallies.
func (f Facets) DocumentTypes() []Count { return f.documentTypes }

// Tags returns the per-tag tallies.
func (f Facets) Tags() []Count { return f.tags }
