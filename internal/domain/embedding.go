package domain

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// LocalEmbedder produces deterministic unit vectors by hashing tokens into
// a fixed number of buckets. It is a stand-in for a real embedding model:
// the vectors are stable across runs but carry no semantic signal, so
// query-time ranking keeps its lexical heuristics.
type LocalEmbedder struct {
	dimensions int
}

// NewLocalEmbedder creates a deterministic in-process embedder.
func NewLocalEmbedder(dimensions int) *LocalEmbedder {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &LocalEmbedder{dimensions: dimensions}
}

// Embed implements Embedder. Never fails.
func (e *LocalEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	vec := make([]float32, e.dimensions)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}

	return EmbeddingResult{Embedding: vec}, nil
}
