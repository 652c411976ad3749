package backend

import (
	"fmt"
	"strings"

	"github.com/ppiankov/clausula/internal/model"
)

// NewInferenceProvider creates an inference provider from configuration. An
// empty provider name returns (nil, nil): inference is disabled and callers
// degrade.
func NewInferenceProvider(cfg model.BackendConfig) (InferenceProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return limitInference(p, cfg.RateLimit), nil

	case "anthropic", "claude":
		p, err := NewAnthropicProvider(cfg)
		if err != nil {
			return nil, err
		}
		return limitInference(p, cfg.RateLimit), nil

	case "ollama":
		p, err := NewOllamaProvider(cfg)
		if err != nil {
			return nil, err
		}
		return limitInference(p, cfg.RateLimit), nil

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unknown inference provider: %s (supported: openai, anthropic, ollama)",
			model.ErrConfiguration, cfg.Provider)
	}
}

// NewEmbeddingProvider creates an embedding provider from configuration. An
// empty provider name returns (nil, nil): dense retrieval is disabled and the
// pipeline falls back to sparse-only.
func NewEmbeddingProvider(cfg model.BackendConfig) (EmbeddingProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return limitEmbedding(p, cfg.RateLimit), nil

	case "ollama":
		p, err := NewOllamaProvider(cfg)
		if err != nil {
			return nil, err
		}
		return limitEmbedding(p, cfg.RateLimit), nil

	case "anthropic", "claude":
		return nil, fmt.Errorf("%w: anthropic has no embedding API (use openai or ollama for embeddings)",
			model.ErrConfiguration)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider: %s (supported: openai, ollama)",
			model.ErrConfiguration, cfg.Provider)
	}
}
