package chi

import (
	"fmt"
	"time"

	domdoc "github.com/glowcast/searchd/internal/domain/document"
	"github.com/glowcast/searchd/internal/domain/document/patch"
	"github.com/glowcast/searchd/internal/domain/search/facet"
	"github.com/glowcast/searchd/internal/domain/search/filter"
	"github.com/glowcast/searchd/internal/domain/search/mode"
	"github.com/glowcast/searchd/internal/domain/search/request"
	"github.com/glowcast/searchd/internal/domain/search/result"
	searchuc "github.com/glowcast/searchd/internal/usecase/search"
)

// errorCode identifies an error class in API responses.
type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeValidationFailed       errorCode = "validation_failed"
	codeDocumentNotFound       errorCode = "document_not_found"
	codeQueryNotFound          errorCode = "query_not_found"
	codeVectorDimMismatch      errorCode = "vector_dim_mismatch"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeSearchFailed           errorCode = "search_failed"
	codeInternalError          errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type filterBody struct {
	Types    []string `json:"types,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	UserID   string   `json:"user_id,omitempty"`
	IsPublic *bool    `json:"is_public,omitempty"`
	DateFrom int64    `json:"date_from,omitempty"`
	DateTo   int64    `json:"date_to,omitempty"`
}

type searchRequestBody struct {
	Query   string      `json:"query"`
	Type    string      `json:"type,omitempty"`
	Filters *filterBody `json:"filters,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Offset  int         `json:"offset,omitempty"`
	UserID  string      `json:"user_id,omitempty"`
}

type upsertDocumentBody struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Content  string            `json:"content,omitempty"`
	Keywords []string          `json:"keywords,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	UserID   string            `json:"user_id,omitempty"`
	IsPublic *bool             `json:"is_public,omitempty"`
}

type patchDocumentBody struct {
	Title    *string            `json:"title,omitempty"`
	Content  *string            `json:"content,omitempty"`
	Keywords *[]string          `json:"keywords,omitempty"`
	Tags     *[]string          `json:"tags,omitempty"`
	Metadata *map[string]string `json:"metadata,omitempty"`
	IsPublic *bool              `json:"is_public,omitempty"`
}

type documentResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Content   string            `json:"content,omitempty"`
	Keywords  []string          `json:"keywords,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	IsPublic  bool              `json:"is_public"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type facetCountItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type facetsResponse struct {
	DocumentTypes []facetCountItem `json:"document_types"`
	Tags          []facetCountItem `json:"tags"`
}

type searchResultItem struct {
	DocumentID   string           `json:"document_id"`
	Score        float64          `json:"score"`
	RankPosition int              `json:"rank_position"`
	Document     documentResponse `json:"document"`
}

type searchResponseBody struct {
	Results        []searchResultItem `json:"results"`
	Total          int                `json:"total"`
	QueryID        string             `json:"query_id"`
	ResponseTimeMs int64              `json:"response_time_ms"`
	Suggestions    []string           `json:"suggestions"`
	Facets         facetsResponse     `json:"facets"`
}

type suggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func filtersFromBody(f *filterBody) (filter.Filter, error) {
	if f == nil {
		return filter.Filter{}, nil
	}
	types := make([]domdoc.Type, 0, len(f.Types))
	for _, t := range f.Types {
		types = append(types, domdoc.Type(t))
	}
	return filter.New(types, f.Tags, f.UserID, f.IsPublic, f.DateFrom, f.DateTo)
}

func searchRequestFromBody(body searchRequestBody, maxLimit int) (request.Request, error) {
	filters, err := filtersFromBody(body.Filters)
	if err != nil {
		return request.Request{}, fmt.Errorf("parse filters: %w", err)
	}
	return request.New(body.Query, mode.Mode(body.Type), filters, body.Limit, body.Offset, maxLimit)
}

func documentFromUpsert(id string, body upsertDocumentBody, now int64) (domdoc.Document, error) {
	isPublic := true
	if body.IsPublic != nil {
		isPublic = *body.IsPublic
	}
	return domdoc.New(
		id, domdoc.Type(body.Type), body.Title, body.Content,
		body.Keywords, body.Tags, body.Metadata, body.UserID, isPublic, now,
	)
}

func patchFromBody(body patchDocumentBody) (patch.Patch, error) {
	return patch.New(
		body.Title, body.Content, body.Keywords,
		body.Tags, body.Metadata, body.IsPublic,
	)
}

func documentToResponse(doc *domdoc.Document) documentResponse {
	return documentResponse{
		ID:        doc.ID(),
		Type:      string(doc.DocType()),
		Title:     doc.Title(),
		Content:   doc.Content(),
		Keywords:  doc.Keywords(),
		Tags:      doc.Tags(),
		Metadata:  doc.Metadata(),
		UserID:    doc.UserID(),
		IsPublic:  doc.IsPublic(),
		CreatedAt: time.UnixMilli(doc.CreatedAt()).UTC(),
		UpdatedAt: time.UnixMilli(doc.UpdatedAt()).UTC(),
	}
}

func resultToItem(r *result.Result) searchResultItem {
	return searchResultItem{
		DocumentID:   r.DocumentID(),
		Score:        r.Score(),
		RankPosition: r.RankPosition(),
		Document:     documentToResponse(r.Document()),
	}
}

func facetsToResponse(f facet.Facets) facetsResponse {
	return facetsResponse{
		DocumentTypes: countsToItems(f.DocumentTypes()),
		Tags:          countsToItems(f.Tags()),
	}
}

func countsToItems(counts []facet.Count) []facetCountItem {
	items := make([]facetCountItem, len(counts))
	for i, c := range counts {
		items[i] = facetCountItem{Value: c.Value(), Count: c.Count()}
	}
	return items
}

func searchResponseFromUsecase(resp *searchuc.Response) searchResponseBody {
	items := make([]searchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = resultToItem(&resp.Results[i])
	}
	return searchResponseBody{
		Results:        items,
		Total:          resp.Total,
		QueryID:        resp.QueryID,
		ResponseTimeMs: resp.ResponseTimeMs,
		Suggestions:    resp.Suggestions,
		Facets:         facetsToResponse(resp.Facets),
	}
}
