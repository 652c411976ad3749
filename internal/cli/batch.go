package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ppiankov/clausula/internal/checklist"
	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/reader"
	"github.com/ppiankov/clausula/internal/report"
	"github.com/ppiankov/clausula/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchWorkers int
	outputDir    string
	batchTimeout time.Duration
	// noCache, noFooter, and the AI flags are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every document in a directory",
	Long: `Batch analyzes all supported documents in a directory concurrently:
- Parse .txt, .md, and .html documents
- Analyze documents in parallel with configurable worker count
- Verify the inferred legal process checklist across the document set
- Write per-document and batch reports to the output directory

Example:
  clausula batch ./documents
  clausula batch ./documents --workers 8 --output-dir ./reports
  clausula batch ./documents --ai --ai-provider ollama --ai-model llama3`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency and output flags
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent workers (0 = from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "report directory (default: from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding and expansion caches")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&rulebookPath, "rulebook", "", "rulebook YAML override (default: built-in ADGM rulebook)")

	// AI flags
	batchCmd.Flags().BoolVar(&aiEnabled, "ai", false, "enable AI evidence synthesis and dense retrieval")
	batchCmd.Flags().StringVar(&aiProvider, "ai-provider", "openai", "AI provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&aiModel, "ai-model", "gpt-4o-mini", "inference model name")
	batchCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "embedding model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	// Build configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchWorkers > 0 {
		cfg.Concurrency.Workers = batchWorkers
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	if err := configureBackends(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.JSON)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Clausula Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.Inference.Provider != "" {
		fmt.Fprintf(os.Stderr, "  AI:           %s/%s\n", cfg.Inference.Provider, cfg.Inference.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eng, rb, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(eng, reader.NewRegistry(), checklist.NewVerifier(rb), cfg.Concurrency.Workers, log)

	summary, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("process directory: %w", err)
	}

	// Render per-document reports
	renderer := report.NewRenderer(!noFooter)
	for _, result := range summary.Documents {
		slug := report.Slug(result.DocumentName)
		if err := renderer.WriteJSON(result, filepath.Join(cfg.Output.Dir, slug+".json")); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.DocumentName, err)
			continue
		}
		if err := renderer.WriteDocumentMarkdown(result, filepath.Join(cfg.Output.Dir, slug+".md")); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.DocumentName, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (score: %d/100)\n", result.DocumentName, result.Score.Value)
	}

	failed := make([]string, 0, len(summary.Errors))
	for name := range summary.Errors {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	for _, name := range failed {
		fmt.Fprintf(os.Stderr, "✗ %s: %s\n", name, summary.Errors[name])
	}

	// Render the batch report
	if err := renderer.WriteJSON(summary, filepath.Join(cfg.Output.Dir, "batch-report.json")); err != nil {
		return fmt.Errorf("render batch report: %w", err)
	}
	if err := renderer.WriteBatchMarkdown(summary, filepath.Join(cfg.Output.Dir, "batch-report.md")); err != nil {
		return fmt.Errorf("render batch report: %w", err)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d documents\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Complete:   %d\n", summary.Complete)
	fmt.Fprintf(os.Stderr, "  Partial:    %d\n", summary.Partial)
	fmt.Fprintf(os.Stderr, "  Failed:     %d\n", summary.Failed)
	if summary.Process != nil {
		fmt.Fprintf(os.Stderr, "  Checklist:  %s, %d of %d required documents present\n",
			summary.Process.Process, len(summary.Process.PresentDocs), summary.Process.RequiredCount)
	}
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
