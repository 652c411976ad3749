package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/reader"
	"github.com/ppiankov/clausula/internal/report"
	"github.com/spf13/cobra"
)

var (
	outJSON      string
	outMD        string
	timeout      time.Duration
	noCache      bool
	noFooter     bool
	suggest      bool
	rulebookPath string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single document for ADGM compliance",
	Long: `Analyze runs the full compliance pipeline on one document:
- Classify the document type
- Run deterministic rule checks (jurisdiction, required sections, binding
  language, signatures)
- Retrieve the regulatory passages behind each finding
- Synthesize evidence-grounded review comments (with --ai)
- Draft corrected clause text for flagged blocks (with --ai --suggest)
- Score the document and derive recommendations

Example:
  clausula analyze contract.txt
  clausula analyze articles.html --json report.json --md report.md
  clausula analyze contract.txt --ai --ai-provider openai --ai-model gpt-4o-mini
  clausula analyze contract.txt --ai --suggest`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding and expansion caches")
	analyzeCmd.Flags().StringVar(&rulebookPath, "rulebook", "", "rulebook YAML override (default: built-in ADGM rulebook)")

	// AI flags
	analyzeCmd.Flags().BoolVar(&aiEnabled, "ai", false, "enable AI evidence synthesis and dense retrieval")
	analyzeCmd.Flags().StringVar(&aiProvider, "ai-provider", "openai", "AI provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&aiModel, "ai-model", "gpt-4o-mini", "inference model name")
	analyzeCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "embedding model name")
	analyzeCmd.Flags().BoolVar(&suggest, "suggest", false, "draft corrected clause text for flagged blocks (requires --ai)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Build configuration from defaults, config file, and flags
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	if err := configureBackends(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.JSON)

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", cfg.Corpus.DBPath)
		if cfg.Inference.Provider != "" {
			fmt.Fprintf(os.Stderr, "AI: %s/%s\n", cfg.Inference.Provider, cfg.Inference.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	eng, _, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}

	doc, err := reader.NewRegistry().ParseFile(path)
	if err != nil {
		return err
	}

	result, err := eng.Analyze(ctx, doc)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if suggest {
		n, err := eng.SuggestCorrections(ctx, doc, result)
		if err != nil {
			return fmt.Errorf("suggest corrections: %w", err)
		}
		log.Debug("corrections drafted", "blocks", n)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Classified as %s (%.0f%%)\n", result.DocumentType, result.TypeConfidence*100)
		fmt.Fprintf(os.Stderr, "✓ Found %d issues\n", len(result.Issues))
		fmt.Fprintf(os.Stderr, "✓ Compliance score: %d/100\n", result.Score.Value)
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	renderer := report.NewRenderer(!noFooter)
	if err := renderer.WriteJSON(result, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if outMD != "" {
		if err := renderer.WriteDocumentMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	renderer.Summary(os.Stdout, result)
	return nil
}
