package search

import (
	"sort"

	"github.com/glowcast/searchd/internal/domain/search/facet"
	"github.com/glowcast/searchd/internal/domain/search/result"
)

// maxFacetValues caps each facet dimension at its most frequent values.
const maxFacetValues = 10

// buildFacets tallies document types and individual tags across the final
// result list.
func buildFacets(results []result.Result) facet.Facets {
	typeCounts := make(map[string]int)
	tagCounts := make(map[string]int)

	for i := range results {
		doc := results[i].Document()
		typeCounts[string(doc.DocType())]++
		for _, tag := range doc.Tags() {
			tagCounts[tag]++
		}
	}

	return facet.New(topCounts(typeCounts), topCounts(tagCounts))
}

// topCounts converts a tally map into counts sorted by frequency
// descending (value ascending on ties), truncated to maxFacetValues.
func topCounts(tally map[string]int) []facet.Count {
	counts := make([]facet.Count, 0, len(tally))
	for value, n := range tally {
		counts = append(counts, facet.NewCount(value, n))
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count() != counts[j].Count() {
			return counts[i].Count() > counts[j].Count()
		}
		return counts[i].Value() < counts[j].Value()
	})

	if len(counts) > maxFacetValues {
		counts = counts[:maxFacetValues]
	}
	return counts
}
