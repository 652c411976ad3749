package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/clausula/internal/cache"
)

// stubEmbedding is a hand-rolled EmbeddingProvider for tests
type stubEmbedding struct {
	vector []float32
	err    error
	calls  int
}

func (s *stubEmbedding) Name() string { return "stub-embedding" }

func (s *stubEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func (s *stubEmbedding) IsAvailable(ctx context.Context) bool { return s.err == nil }

func TestCosine(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1, 0}); !almostEqual(got, 1.0) {
		t.Errorf("identical vectors: expected 1.0, got %v", got)
	}
	if got := cosine([]float32{1, 0}, []float32{0, 1}); !almostEqual(got, 0) {
		t.Errorf("orthogonal vectors: expected 0, got %v", got)
	}
	if got := cosine([]float32{1, 0}, []float32{-1, 0}); !almostEqual(got, -1.0) {
		t.Errorf("opposite vectors: expected -1.0, got %v", got)
	}
	if got := cosine([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("mismatched dimensions: expected 0, got %v", got)
	}
	if got := cosine([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero norm: expected 0, got %v", got)
	}
}

func TestCachedEmbedder_CachesByText(t *testing.T) {
	stub := &stubEmbedding{vector: []float32{0.5, 0.25}}
	embedder := NewCachedEmbedder(stub, cache.NewMemoryCache(time.Minute, time.Minute), "test-model", time.Minute)

	vec, err := embedder.Embed(context.Background(), "governing law")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 {
		t.Fatalf("unexpected vector: %v", vec)
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", stub.calls)
	}

	if _, err := embedder.Embed(context.Background(), "governing law"); err != nil {
		t.Fatalf("expected no error on cached call, got %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("expected cache hit to skip the provider, got %d calls", stub.calls)
	}

	if _, err := embedder.Embed(context.Background(), "share capital"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("expected 2 provider calls after a new text, got %d", stub.calls)
	}
}

func TestCachedEmbedder_ProviderError(t *testing.T) {
	wantErr := errors.New("backend down")
	embedder := NewCachedEmbedder(&stubEmbedding{err: wantErr}, nil, "test-model", time.Minute)

	if _, err := embedder.Embed(context.Background(), "anything"); !errors.Is(err, wantErr) {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestCachedEmbedder_RejectsEmptyVector(t *testing.T) {
	embedder := NewCachedEmbedder(&stubEmbedding{vector: nil}, nil, "test-model", time.Minute)

	if _, err := embedder.Embed(context.Background(), "anything"); err == nil {
		t.Error("expected an error for an empty provider vector")
	}
}
