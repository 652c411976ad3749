package backend

import (
	"context"
	"fmt"

	"github.com/ppiankov/clausula/internal/worker"
)

// limitInference wraps a provider with a rate limiter keyed by the provider
// name. A non-positive rate returns the provider unwrapped.
func limitInference(p InferenceProvider, rps float64) InferenceProvider {
	if rps <= 0 {
		return p
	}
	return &limitedInference{inner: p, limiter: worker.NewLimiter(rps, 0)}
}

// limitEmbedding wraps a provider with a rate limiter keyed by the provider
// name. A non-positive rate returns the provider unwrapped.
func limitEmbedding(p EmbeddingProvider, rps float64) EmbeddingProvider {
	if rps <= 0 {
		return p
	}
	return &limitedEmbedding{inner: p, limiter: worker.NewLimiter(rps, 0)}
}

type limitedInference struct {
	inner   InferenceProvider
	limiter *worker.Limiter
}

func (l *limitedInference) Name() string { return l.inner.Name() }

func (l *limitedInference) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *limitedInference) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := l.limiter.Wait(ctx, l.inner.Name()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return l.inner.Complete(ctx, req)
}

type limitedEmbedding struct {
	inner   EmbeddingProvider
	limiter *worker.Limiter
}

func (l *limitedEmbedding) Name() string { return l.inner.Name() }

func (l *limitedEmbedding) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *limitedEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := l.limiter.Wait(ctx, l.inner.Name()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return l.inner.Embed(ctx, texts)
}
