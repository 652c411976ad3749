// Package engine wires the analysis components into the document pipeline:
// classification, rule validation, evidence synthesis, citation enrichment,
// aggregation, and scoring.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/clausula/internal/backend"
	"github.com/ppiankov/clausula/internal/cache"
	"github.com/ppiankov/clausula/internal/classify"
	"github.com/ppiankov/clausula/internal/kb"
	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/retrieval"
	"github.com/ppiankov/clausula/internal/rulebook"
	"github.com/ppiankov/clausula/internal/rules"
	"github.com/ppiankov/clausula/internal/score"
	"github.com/ppiankov/clausula/internal/synth"
)

// citationTopK bounds the retrieval that grounds one rule finding topic; only
// the top passage can be attached
const citationTopK = 1

// Engine analyzes parsed documents against the regulatory corpus. One engine
// serves a whole batch; all methods are safe for concurrent use.
type Engine struct {
	classifier  *classify.Classifier
	validator   *rules.Validator
	retriever   *retrieval.Retriever
	synthesizer *synth.Synthesizer
	scorer      *score.Scorer
	cfg         *model.Config
	log         logging.Logger
}

// New assembles an engine over a corpus snapshot. inference and embedding may
// be nil: analysis then runs rule-only and retrieval lexical-only.
func New(cfg *model.Config, rb *rulebook.Rulebook, store kb.Store, inference backend.InferenceProvider, embedding backend.EmbeddingProvider, log logging.Logger) *Engine {
	log = logging.OrNop(log)

	ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second
	var c cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			c = cache.NewLayeredCache(ttl, cfg.Cache.Dir, ttl)
		} else {
			c = cache.NewMemoryCache(ttl, 10*time.Minute)
		}
	}

	var embedder *retrieval.CachedEmbedder
	if embedding != nil {
		embedder = retrieval.NewCachedEmbedder(embedding, c, cfg.Embedding.Model, ttl)
	}
	expander := retrieval.NewExpander(inference, c, cfg.Retrieval.MaxExpansions, ttl, log)
	retriever := retrieval.NewRetriever(store, expander, embedder, cfg.Retrieval, log)

	return &Engine{
		classifier:  classify.NewClassifier(rb, cfg.Classifier.ConfidenceThreshold),
		validator:   rules.NewValidator(rb),
		retriever:   retriever,
		synthesizer: synth.NewSynthesizer(inference, retriever, store, rb, log),
		scorer:      score.NewScorer(cfg.Scoring.SeverityWeights),
		cfg:         cfg,
		log:         log,
	}
}

// Analyze runs the full pipeline for one document. Cancellation aborts the
// whole analysis; there is never a partial result.
func (e *Engine) Analyze(ctx context.Context, doc *model.ParsedDocument) (*model.AnalysisResult, error) {
	if doc.IsEmpty() {
		return nil, fmt.Errorf("%w: document has no analyzable text", model.ErrInputDocument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()

	// 1. Classify the document type
	docType, confidence := e.classifier.Classify(doc)
	e.log.Debug("classified document", "document", doc.Name, "type", docType, "confidence", confidence)

	// 2. Run the deterministic rule checks
	ruleResult, err := e.validator.Validate(doc, docType)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// 3. Evidence synthesis and citation enrichment both lean on the
	// retrieval pipeline; run them concurrently and merge below
	var (
		wg        sync.WaitGroup
		synthRes  *synth.Result
		synthErr  error
		citations map[string][]string
		citeErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		synthRes, synthErr = e.synthesizer.Synthesize(ctx, doc, docType, ruleResult.Issues)
	}()
	go func() {
		defer wg.Done()
		citations, citeErr = e.citationsByTopic(ctx, ruleResult.Issues)
	}()
	wg.Wait()
	if synthErr != nil {
		return nil, fmt.Errorf("synthesize: %w", synthErr)
	}
	if citeErr != nil {
		return nil, fmt.Errorf("attach citations: %w", citeErr)
	}
	attachCitations(ruleResult.Issues, citations)

	// 4. Aggregate rule and advisory findings
	issues := Aggregate(ruleResult.Issues, synthRes.Issues)

	// 5. Score the document; advisory findings never move the number
	scoreResult := e.scorer.Calculate(issues, ruleResult.MissingSections, ruleResult.TotalRequired)

	// 6. Assemble the result
	result := &model.AnalysisResult{
		AnalysisID:      uuid.NewString(),
		DocumentName:    doc.Name,
		AnalyzedAt:      time.Now().UTC(),
		DocumentType:    docType,
		TypeConfidence:  confidence,
		Issues:          issues,
		MissingSections: ruleResult.MissingSections,
		PresentSections: ruleResult.PresentSections,
		Score:           scoreResult,
		Status:          model.StatusComplete,
		Warnings:        synthRes.Warnings,
		Recommendations: score.Recommendations(issues, nil, synthRes.Recommendations),
	}
	if len(synthRes.Warnings) > 0 || synthRes.Degraded {
		result.Status = model.StatusPartialWithWarnings
	}

	e.log.Info("analysis complete",
		"document", doc.Name,
		"type", docType,
		"score", scoreResult.Value,
		"issues", len(issues),
		"status", result.Status,
		"took", time.Since(started))
	return result, nil
}

// SuggestCorrections asks the inference backend for replacement text for each
// document block that carries rule findings with a suggestion. The corrected
// text overwrites those findings' suggestion fields in place. Advisory only;
// the score is never recomputed. Returns the number of corrected blocks.
func (e *Engine) SuggestCorrections(ctx context.Context, doc *model.ParsedDocument, result *model.AnalysisResult) (int, error) {
	byBlock := make(map[int][]int)
	for i, issue := range result.Issues {
		if issue.SourceKind != model.SourceRuleBased || issue.Suggestion == "" {
			continue
		}
		if issue.BlockIndex < 0 || issue.BlockIndex >= len(doc.Blocks) {
			continue
		}
		byBlock[issue.BlockIndex] = append(byBlock[issue.BlockIndex], i)
	}
	if len(byBlock) == 0 {
		return 0, nil
	}

	blocks := make([]int, 0, len(byBlock))
	for b := range byBlock {
		blocks = append(blocks, b)
	}
	sort.Ints(blocks)

	corrected := 0
	for _, b := range blocks {
		indexes := byBlock[b]
		group := make([]model.Issue, len(indexes))
		for j, i := range indexes {
			group[j] = result.Issues[i]
		}

		text, err := e.synthesizer.SuggestCorrection(ctx, doc.Blocks[b].Text, group)
		if err != nil {
			if errors.Is(err, model.ErrConfiguration) || ctx.Err() != nil {
				return corrected, err
			}
			e.log.Warn("correction failed, block skipped", "block", b, "error", err)
			continue
		}
		for _, i := range indexes {
			result.Issues[i].Suggestion = text
		}
		corrected++
	}
	return corrected, nil
}

// citationsByTopic retrieves the regulatory grounding for each distinct rule
// finding topic. A topic gets its top passage id only when relevance clears
// the citation floor. The only error is context cancellation.
func (e *Engine) citationsByTopic(ctx context.Context, issues []model.Issue) (map[string][]string, error) {
	citations := make(map[string][]string)
	for _, issue := range issues {
		if _, done := citations[issue.Topic]; done {
			continue
		}
		citations[issue.Topic] = nil

		res, err := e.retriever.Retrieve(ctx, citationQuery(issue.Topic), citationTopK)
		if err != nil {
			return nil, err
		}
		top, ok := res.Top()
		if !ok || top.Relevance < e.cfg.Retrieval.CitationFloor {
			continue
		}
		citations[issue.Topic] = []string{top.Passage.ID}
	}
	return citations, nil
}

// citationQuery turns a finding topic into the query that searches for its
// regulatory grounding
func citationQuery(topic string) string {
	kind, detail, found := strings.Cut(topic, ":")
	if !found {
		return "ADGM requirements " + topic
	}
	detail = strings.ReplaceAll(detail, "_", " ")
	switch kind {
	case "jurisdiction":
		return "ADGM jurisdiction and governing law " + detail
	case "section":
		return "ADGM required section " + detail
	case "language":
		return "ADGM binding obligation language " + detail
	case "signatory":
		return "ADGM signature and execution requirements"
	default:
		return "ADGM requirements " + detail
	}
}

// attachCitations copies each topic's citation onto every finding of that topic
func attachCitations(issues []model.Issue, citations map[string][]string) {
	for i := range issues {
		if ids := citations[issues[i].Topic]; len(ids) > 0 {
			issues[i].CitedPassageIDs = append([]string(nil), ids...)
		}
	}
}
