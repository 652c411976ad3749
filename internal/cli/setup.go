package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/clausula/internal/backend"
	"github.com/ppiankov/clausula/internal/engine"
	"github.com/ppiankov/clausula/internal/kb"
	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/rulebook"
)

// AI flags shared by the analyze, batch, and kb commands
var (
	aiEnabled  bool
	aiProvider string
	aiModel    string
	embedModel string
)

// configureBackends applies the AI flags and resolves credentials from the
// environment. Inference and embedding share one provider, except anthropic,
// which has no embeddings API; retrieval then stays lexical.
func configureBackends(cfg *model.Config) error {
	if aiEnabled {
		cfg.Inference.Provider = aiProvider
		cfg.Inference.Model = aiModel
		switch aiProvider {
		case "anthropic", "claude":
			cfg.Embedding.Provider = ""
		default:
			cfg.Embedding.Provider = aiProvider
			cfg.Embedding.Model = embedModel
		}
	}
	if err := resolveCredentials(&cfg.Inference); err != nil {
		return err
	}
	return resolveCredentials(&cfg.Embedding)
}

// resolveCredentials fills in API keys and endpoints from the environment for
// the configured provider
func resolveCredentials(bc *model.BackendConfig) error {
	switch bc.Provider {
	case "openai":
		bc.APIKey = os.Getenv("OPENAI_API_KEY")
		if bc.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		bc.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if bc.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" && bc.BaseURL == "" {
			bc.BaseURL = base
		}
	}
	return nil
}

// loadRulebook returns the built-in ADGM rulebook, or the YAML override when
// the --rulebook flag is set
func loadRulebook() (*rulebook.Rulebook, error) {
	if rulebookPath == "" {
		return rulebook.Default(), nil
	}
	return rulebook.Load(rulebookPath)
}

// openSnapshot loads the corpus into an in-memory snapshot, seeding an empty
// corpus with the built-in ADGM passages first. The database is closed before
// returning; analysis works entirely on the snapshot.
func openSnapshot(ctx context.Context, cfg *model.Config, log logging.Logger) (kb.Store, error) {
	corpus, err := kb.Open(cfg.Corpus.DBPath)
	if err != nil {
		return nil, err
	}
	defer corpus.Close()

	n, err := kb.EnsureSeeded(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		log.Debug("seeded empty corpus", "passages", n)
	}
	return corpus.Snapshot(ctx)
}

// buildEngine assembles the analysis engine from the effective configuration.
// The rulebook is returned alongside for checklist verification.
func buildEngine(ctx context.Context, cfg *model.Config, log logging.Logger) (*engine.Engine, *rulebook.Rulebook, error) {
	rb, err := loadRulebook()
	if err != nil {
		return nil, nil, err
	}
	store, err := openSnapshot(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	inference, err := backend.NewInferenceProvider(cfg.Inference)
	if err != nil {
		return nil, nil, err
	}
	embedding, err := backend.NewEmbeddingProvider(cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(cfg, rb, store, inference, embedding, log), rb, nil
}
