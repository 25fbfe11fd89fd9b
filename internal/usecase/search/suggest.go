package search

import (
	"sort"
	"strings"

	"github.com/glowcast/searchd/internal/domain/search/result"
)

const (
	// suggestionSourceResults is how many top results contribute keywords.
	suggestionSourceResults = 5
	// maxSuggestions caps the returned expansion terms.
	maxSuggestions = 5
)

// buildSuggestions derives query-expansion terms from the keywords of the
// top results. Keywords already present (case-insensitively) as substrings
// of the query are excluded.
func buildSuggestions(queryText string, results []result.Result) []string {
	top := results
	if len(top) > suggestionSourceResults {
		top = top[:suggestionSourceResults]
	}

	freq := make(map[string]int)
	for i := range top {
		for _, kw := range top[i].Document().Keywords() {
			freq[kw]++
		}
	}

	keywords := make([]string, 0, len(freq))
	for kw := range freq {
		keywords = append(keywords, kw)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if freq[keywords[i]] != freq[keywords[j]] {
			return freq[keywords[i]] > freq[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	q := strings.ToLower(queryText)
	suggestions := make([]string, 0, maxSuggestions)
	for _, kw := range keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			continue
		}
		suggestions = append(suggestions, kw)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}
