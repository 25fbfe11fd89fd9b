package search

import (
	"strings"

	domdoc "github.com/glowcast/searchd/internal/domain/document"
)

// Semantic scoring tiers. The title is the strongest signal, then exact
// keyword-set overlap, then a body substring; everything else gets a low
// floor so semantic mode never drops a candidate outright.
const (
	semanticTitleScore   = 0.9
	semanticKeywordScore = 0.8
	semanticBodyScore    = 0.6
	semanticFloorScore   = 0.3
)

// Keyword scoring tiers. Strict mode: a document matching none of the
// three conditions is excluded entirely.
const (
	keywordTitleScore   = 1.0
	keywordKeywordScore = 0.8
	keywordBodyScore    = 0.6
)

// scoredDoc pairs a candidate with its strategy score.
type scoredDoc struct {
	doc   domdoc.Document
	score float64
}

// scoreSemantic assigns every candidate a tiered lexical score. It is a
// heuristic stand-in for vector cosine similarity; see the package docs.
func scoreSemantic(queryText string, docs []domdoc.Document) []scoredDoc {
	terms := queryTerms(queryText)
	q := strings.ToLower(queryText)

	scored := make([]scoredDoc, 0, len(docs))
	for _, doc := range docs {
		score := semanticFloorScore
		switch {
		case strings.Contains(strings.ToLower(doc.Title()), q):
			score = semanticTitleScore
		case keywordsIntersect(terms, doc.Keywords()):
			score = semanticKeywordScore
		case strings.Contains(strings.ToLower(doc.Content()), q):
			score = semanticBodyScore
		}
		scored = append(scored, scoredDoc{doc: doc, score: score})
	}
	return scored
}

// scoreKeyword keeps only documents matching title, body, or keyword set.
func scoreKeyword(queryText string, docs []domdoc.Document) []scoredDoc {
	terms := queryTerms(queryText)
	q := strings.ToLower(queryText)

	scored := make([]scoredDoc, 0, len(docs))
	for _, doc := range docs {
		var score float64
		switch {
		case strings.Contains(strings.ToLower(doc.Title()), q):
			score = keywordTitleScore
		case keywordsIntersect(terms, doc.Keywords()):
			score = keywordKeywordScore
		case strings.Contains(strings.ToLower(doc.Content()), q):
			score = keywordBodyScore
		default:
			continue
		}
		scored = append(scored, scoredDoc{doc: doc, score: score})
	}
	return scored
}

// queryTerms lowercases and splits the query into terms.
func queryTerms(queryText string) []string {
	return strings.Fields(strings.ToLower(queryText))
}

// keywordsIntersect reports whether any query term equals a document
// keyword (case-insensitive).
func keywordsIntersect(terms []string, keywords []string) bool {
	for _, kw := range keywords {
		lkw := strings.ToLower(kw)
		for _, term := range terms {
			if term == lkw {
				return true
			}
		}
	}
	return false
}
