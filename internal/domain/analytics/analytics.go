// Package analytics holds the derived read-only rollup over the query and
// result logs. Reports are computed on demand and never persisted.
package analytics

// QueryCount is one query text with its raw frequency.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// DayCount is the query volume for one calendar day.
type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// DocumentCount is one document with the number of result rows
// referencing it (a click/impression proxy).
type DocumentCount struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Count      int    `json:"count"`
}

// Report is the rollup for a trailing day window component-wise; every
// field defaults to zero/empty when the underlying read fails.
type Report struct {
	TotalQueries      int             `json:"total_queries"`
	AvgResponseTimeMs float64         `json:"avg_response_time_ms"`
	TopQueries        []QueryCount    `json:"top_queries"`
	DailyVolume       []DayCount      `json:"daily_volume"`
	TopDocuments      []DocumentCount `json:"top_documents"`
	Days              int             `json:"days"`
	UserID            string          `json:"user_id,omitempty"`
}

// Empty returns an all-zero report for the given scope.
func Empty(userID string, days int) Report {
	return Report{
		TopQueries:   []QueryCount{},
		DailyVolume:  []DayCount{},
		TopDocuments: []DocumentCount{},
		Days:         days,
		UserID:       userID,
	}
}
