package domain

import "errors"

var (
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrQueryNotFound signals a missing search query record.
	ErrQueryNotFound = errors.New("search query not found")
	// ErrInvalidRequest signals an invalid search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidDocument signals an invalid document payload.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrVectorDimMismatch signals an embedding dimension mismatch.
	ErrVectorDimMismatch = errors.New("embedding dimension mismatch")
	// ErrSearchFailed signals a core retrieval failure. It is the only
	// search-path error surfaced to callers; enhancement failures degrade.
	ErrSearchFailed = errors.New("search failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
