package search

import "sort"

// FusionWeights is the relative trust assigned to each sub-ranking when
// fusing hybrid results.
type FusionWeights struct {
	Semantic float64
	Keyword  float64
}

// DefaultFusionWeights is the shipped hybrid policy.
var DefaultFusionWeights = FusionWeights{Semantic: 0.7, Keyword: 0.3}

// IsValid reports whether the weights can produce a meaningful ranking.
func (w FusionWeights) IsValid() bool {
	return w.Semantic >= 0 && w.Keyword >= 0 && w.Semantic+w.Keyword > 0
}

// fuseWeighted merges two independently-scored lists for the same query by
// weighted linear combination: a document in both lists scores
// semantic*ws + keyword*wk; a document in one list scores that side alone.
// The merged list is sorted by combined score descending (document ID
// breaks ties for a stable order).
func fuseWeighted(semantic, keyword []scoredDoc, w FusionWeights) []scoredDoc {
	merged := make(map[string]*scoredDoc, len(semantic)+len(keyword))
	order := make([]string, 0, len(semantic)+len(keyword))

	for _, s := range semantic {
		id := s.doc.ID()
		merged[id] = &scoredDoc{doc: s.doc, score: s.score * w.Semantic}
		order = append(order, id)
	}

	for _, k := range keyword {
		id := k.doc.ID()
		if existing, ok := merged[id]; ok {
			existing.score += k.score * w.Keyword
		} else {
			merged[id] = &scoredDoc{doc: k.doc, score: k.score * w.Keyword}
			order = append(order, id)
		}
	}

	results := make([]scoredDoc, 0, len(merged))
	for _, id := range order {
		results = append(results, *merged[id])
	}
	sortByScore(results)
	return results
}

// sortByScore orders by score descending, document ID ascending on ties.
func sortByScore(docs []scoredDoc) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].score != docs[j].score {
			return docs[i].score > docs[j].score
		}
		return docs[i].doc.ID() < docs[j].doc.ID()
	})
}
