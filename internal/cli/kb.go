package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/clausula/internal/backend"
	"github.com/ppiankov/clausula/internal/kb"
	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/retrieval"
	"github.com/spf13/cobra"
)

var (
	kbDBPath   string
	kbSeedFile string
	kbEmbed    bool
	kbTopK     int
)

// kbCmd groups the corpus maintenance commands
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the regulatory corpus",
	Long: `Manage the SQLite corpus of ADGM regulatory passages used for
retrieval. The corpus self-seeds with built-in ADGM passages on first use;
kb build imports additional passages and computes embeddings, kb stats
reports corpus state, and kb search runs the retrieval pipeline from the
command line.`,
}

var kbBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Seed the corpus and compute embeddings",
	Long: `Build seeds an empty corpus with the built-in ADGM passages, imports
additional passages from a YAML seed file when given, and with --embed
computes vectors for passages that lack one.

Example:
  clausula kb build
  clausula kb build --seed-file corpus.yaml
  clausula kb build --embed --ai-provider openai`,
	Args: cobra.NoArgs,
	RunE: runKBBuild,
}

var kbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Long:  `Display passage counts, embedding coverage, and the per-source and per-jurisdiction breakdowns.`,
	Args:  cobra.NoArgs,
	RunE:  runKBStats,
}

var kbSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the corpus with the retrieval pipeline",
	Long: `Search runs the retrieval pipeline (query expansion, hybrid lexical
and dense matching, re-ranking) against the corpus and prints the ranked
passages. Without --ai the search is lexical-only.

Example:
  clausula kb search "governing law jurisdiction"
  clausula kb search "employment termination notice" --top 3`,
	Args: cobra.ExactArgs(1),
	RunE: runKBSearch,
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbBuildCmd)
	kbCmd.AddCommand(kbStatsCmd)
	kbCmd.AddCommand(kbSearchCmd)

	kbCmd.PersistentFlags().StringVar(&kbDBPath, "db", "", "corpus database path (default: from config)")

	kbBuildCmd.Flags().StringVar(&kbSeedFile, "seed-file", "", "YAML file with additional passages")
	kbBuildCmd.Flags().BoolVar(&kbEmbed, "embed", false, "compute embeddings for unembedded passages")
	kbBuildCmd.Flags().StringVar(&aiProvider, "ai-provider", "openai", "embedding provider (openai, ollama)")
	kbBuildCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "embedding model name")

	kbSearchCmd.Flags().IntVar(&kbTopK, "top", 0, "passages to return (0 = from config)")
	kbSearchCmd.Flags().BoolVar(&aiEnabled, "ai", false, "enable AI query expansion and dense retrieval")
	kbSearchCmd.Flags().StringVar(&aiProvider, "ai-provider", "openai", "AI provider (openai, anthropic, ollama)")
	kbSearchCmd.Flags().StringVar(&aiModel, "ai-model", "gpt-4o-mini", "inference model name")
	kbSearchCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "embedding model name")
}

func runKBBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if kbDBPath != "" {
		cfg.Corpus.DBPath = kbDBPath
	}
	if kbSeedFile != "" {
		cfg.Corpus.SeedPath = kbSeedFile
	}

	corpus, err := kb.Open(cfg.Corpus.DBPath)
	if err != nil {
		return err
	}
	defer corpus.Close()

	seeded, err := kb.EnsureSeeded(ctx, corpus)
	if err != nil {
		return err
	}
	if seeded > 0 {
		fmt.Printf("✓ Seeded %d built-in passages\n", seeded)
	}

	if cfg.Corpus.SeedPath != "" {
		passages, err := kb.LoadSeedFile(cfg.Corpus.SeedPath)
		if err != nil {
			return err
		}
		if err := corpus.UpsertBatch(ctx, passages); err != nil {
			return err
		}
		fmt.Printf("✓ Imported %d passages from %s\n", len(passages), cfg.Corpus.SeedPath)
	}

	if kbEmbed {
		cfg.Embedding.Provider = aiProvider
		cfg.Embedding.Model = embedModel
		if err := resolveCredentials(&cfg.Embedding); err != nil {
			return err
		}
		provider, err := backend.NewEmbeddingProvider(cfg.Embedding)
		if err != nil {
			return err
		}
		n, err := embedMissing(ctx, corpus, provider)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Embedded %d passages with %s/%s\n", n, aiProvider, embedModel)
	}

	stats, err := corpus.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nCorpus: %s\n", cfg.Corpus.DBPath)
	fmt.Printf("Passages: %d (%d embedded)\n", stats.Total, stats.Embedded)
	return nil
}

// embedMissing computes and stores vectors for passages without one, batching
// provider calls
func embedMissing(ctx context.Context, corpus *kb.Corpus, provider backend.EmbeddingProvider) (int, error) {
	missing, err := corpus.MissingEmbeddings(ctx)
	if err != nil {
		return 0, err
	}

	const batchSize = 16
	embedded := 0
	for start := 0; start < len(missing); start += batchSize {
		end := start + batchSize
		if end > len(missing) {
			end = len(missing)
		}
		chunk := missing[start:end]

		texts := make([]string, len(chunk))
		for i, p := range chunk {
			texts[i] = p.Text
		}
		vectors, err := provider.Embed(ctx, texts)
		if err != nil {
			return embedded, fmt.Errorf("embed passages: %w", err)
		}
		if len(vectors) != len(chunk) {
			return embedded, fmt.Errorf("embed passages: got %d vectors for %d texts", len(vectors), len(chunk))
		}
		for i, p := range chunk {
			if err := corpus.SetEmbedding(ctx, p.ID, vectors[i]); err != nil {
				return embedded, err
			}
			embedded++
		}
	}
	return embedded, nil
}

func runKBStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if kbDBPath != "" {
		cfg.Corpus.DBPath = kbDBPath
	}

	corpus, err := kb.Open(cfg.Corpus.DBPath)
	if err != nil {
		return err
	}
	defer corpus.Close()

	stats, err := corpus.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Corpus:   %s\n", cfg.Corpus.DBPath)
	fmt.Printf("Passages: %d\n", stats.Total)
	fmt.Printf("Embedded: %d\n", stats.Embedded)

	fmt.Println("\nJurisdictions:")
	for _, tag := range sortedKeys(stats.Tags) {
		label := tag
		if label == "" {
			label = "(untagged)"
		}
		fmt.Printf("  %4d  %s\n", stats.Tags[tag], label)
	}

	fmt.Println("\nSources:")
	for _, title := range sortedKeys(stats.Sources) {
		fmt.Printf("  %4d  %s\n", stats.Sources[title], title)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runKBSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if kbDBPath != "" {
		cfg.Corpus.DBPath = kbDBPath
	}
	if kbTopK > 0 {
		cfg.Retrieval.TopK = kbTopK
		if cfg.Retrieval.RerankCandidateCount < kbTopK {
			cfg.Retrieval.RerankCandidateCount = kbTopK * 2
		}
	}
	if err := configureBackends(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.JSON)

	store, err := openSnapshot(ctx, cfg, log)
	if err != nil {
		return err
	}
	inference, err := backend.NewInferenceProvider(cfg.Inference)
	if err != nil {
		return err
	}
	embedding, err := backend.NewEmbeddingProvider(cfg.Embedding)
	if err != nil {
		return err
	}

	ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second
	var embedder *retrieval.CachedEmbedder
	if embedding != nil {
		embedder = retrieval.NewCachedEmbedder(embedding, nil, cfg.Embedding.Model, ttl)
	}
	expander := retrieval.NewExpander(inference, nil, cfg.Retrieval.MaxExpansions, ttl, log)
	retriever := retrieval.NewRetriever(store, expander, embedder, cfg.Retrieval, log)

	res, err := retriever.Retrieve(ctx, query, cfg.Retrieval.TopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if res.Degraded {
		fmt.Fprintln(os.Stderr, "note: retrieval ran degraded (lexical-only or fallback expansion)")
	}
	if len(res.Passages) == 0 {
		fmt.Println("No passages matched.")
		return nil
	}
	for i, sp := range res.Passages {
		fmt.Printf("%d. [%.2f] %s (%s)\n", i+1, sp.Relevance, sp.Passage.SourceTitle, sp.Passage.ID)
		fmt.Printf("   %s\n", excerpt(sp.Passage.Text, 200))
	}
	return nil
}

// excerpt flattens text to one line and truncates it for terminal display
func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
