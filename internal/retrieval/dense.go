package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/ppiankov/clausula/internal/backend"
	"github.com/ppiankov/clausula/internal/cache"
)

// cosine returns the cosine similarity of two vectors. Mismatched dimensions
// or zero-norm inputs score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CachedEmbedder wraps an embedding provider with a cache keyed by model and
// text, so repeated queries in one batch hit the backend once
type CachedEmbedder struct {
	provider backend.EmbeddingProvider
	cache    cache.Cache
	model    string
	ttl      time.Duration
}

// NewCachedEmbedder builds a caching embedder. The cache may be nil, in which
// case every call reaches the provider.
func NewCachedEmbedder(provider backend.EmbeddingProvider, c cache.Cache, modelName string, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{provider: provider, cache: c, model: modelName, ttl: ttl}
}

// Embed returns the vector for one text
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.Key("embed", e.model, text)
	if e.cache != nil {
		if raw, ok := e.cache.Get(key); ok {
			var vec []float32
			if err := json.Unmarshal(raw, &vec); err == nil && len(vec) > 0 {
				return vec, nil
			}
		}
	}

	vectors, err := e.provider.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embed: provider returned %d vectors for one text", len(vectors))
	}

	if e.cache != nil {
		if raw, err := json.Marshal(vectors[0]); err == nil {
			_ = e.cache.Set(key, raw, e.ttl)
		}
	}
	return vectors[0], nil
}
