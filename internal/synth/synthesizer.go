// Package synth generates AI-suggested compliance findings. For every
// compliance dimension the rule validator left uncovered, it retrieves
// grounding passages, asks the inference backend for a structured judgment,
// and converts the judgment into advisory issues. Findings that cannot be
// parsed defensively are dropped, never guessed at.
package synth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/clausula/internal/backend"
	"github.com/ppiankov/clausula/internal/kb"
	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/rulebook"
)

const (
	synthMaxRetries = 2

	// contextPassageCount caps how many retrieved passages enter the prompt
	contextPassageCount = 5

	// excerptLimit caps how much document text the judgment prompt carries
	excerptLimit = 1200

	// citationCount caps cited passages per finding
	citationCount = 3
)

// synthSleepFunc is the sleep function used between retries (injectable for tests)
var synthSleepFunc = time.Sleep

const synthSystem = "You are an ADGM legal compliance expert. Use chain-of-thought reasoning to analyze compliance questions and respond only in JSON."

// Retriever is the slice of the retrieval pipeline the synthesizer needs
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) (*model.RetrievalResult, error)
}

// condition is one compliance dimension the synthesizer probes. A dimension is
// skipped when the rule validator already produced a finding with the matching
// topic prefix; deterministic findings outrank advisory ones anyway.
type condition struct {
	name        string // fallback topic class for findings under this dimension
	rulePrefix  string // rule topics with this prefix mark the dimension covered
	queryFormat string // retrieval query, %s is the document type display name
	focus       string // task line for the judgment prompt
}

var conditions = []condition{
	{
		name:        "completeness",
		rulePrefix:  "section:",
		queryFormat: "ADGM requirements for %s",
		focus:       "Check whether the document contains every element ADGM requires for this document type.",
	},
	{
		name:        "jurisdiction",
		rulePrefix:  "jurisdiction:",
		queryFormat: "ADGM jurisdiction and governing law requirements for %s",
		focus:       "Check whether the document correctly submits to ADGM jurisdiction and ADGM governing law.",
	},
	{
		name:        "language",
		rulePrefix:  "language:",
		queryFormat: "binding language requirements for ADGM %s documents",
		focus:       "Check whether obligations use binding language rather than permissive wording.",
	},
	{
		name:        "signatory",
		rulePrefix:  "signatory:",
		queryFormat: "signature and execution requirements for %s under ADGM rules",
		focus:       "Check whether the document carries a complete signature and execution section.",
	},
}

// Result carries everything one synthesis pass produced
type Result struct {
	Issues          []model.Issue // Advisory findings, confidence < 1.0
	Recommendations []string      // Document-level recommendations from the backend
	Warnings        []string      // Non-fatal trouble: failed or discarded judgments
	Degraded        bool          // True when a degraded retrieval grounds at least one finding
}

// Synthesizer runs grounded compliance judgments through the inference backend
type Synthesizer struct {
	provider     backend.InferenceProvider
	retriever    Retriever
	store        kb.Store
	rb           *rulebook.Rulebook
	weakPatterns []weakPattern
	log          logging.Logger
}

type weakPattern struct {
	term    string
	pattern *regexp.Regexp
}

// NewSynthesizer creates a synthesizer. provider may be nil; synthesis is then
// disabled and every pass returns an empty result.
func NewSynthesizer(provider backend.InferenceProvider, retriever Retriever, store kb.Store, rb *rulebook.Rulebook, log logging.Logger) *Synthesizer {
	s := &Synthesizer{
		provider:  provider,
		retriever: retriever,
		store:     store,
		rb:        rb,
		log:       logging.OrNop(log),
	}
	for _, wt := range rb.Language.WeakTerms {
		s.weakPatterns = append(s.weakPatterns, weakPattern{
			term:    wt.Term,
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(wt.Term) + `\b`),
		})
	}
	return s
}

// Synthesize produces advisory findings for the dimensions ruleIssues left
// uncovered. Backend trouble costs the affected dimension its findings and is
// reported through Warnings; the only returned error is context cancellation.
func (s *Synthesizer) Synthesize(ctx context.Context, doc *model.ParsedDocument, docType model.DocumentType, ruleIssues []model.Issue) (*Result, error) {
	result := &Result{}
	if s.provider == nil {
		return result, nil
	}

	for _, cond := range conditions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if coveredByRules(ruleIssues, cond.rulePrefix) {
			continue
		}
		if cond.name == "signatory" && s.rb.SkipsSignatureCheck(docType) {
			continue
		}

		outcome, err := s.judgeCondition(ctx, doc, docType, cond)
		if err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, outcome.issues...)
		result.Recommendations = append(result.Recommendations, outcome.recommendations...)
		if outcome.warning != "" {
			result.Warnings = append(result.Warnings, outcome.warning)
		}
		if outcome.degraded {
			result.Degraded = true
		}
	}
	return result, nil
}

// conditionOutcome is what probing one dimension produced
type conditionOutcome struct {
	issues          []model.Issue
	recommendations []string
	warning         string
	degraded        bool
}

func (s *Synthesizer) judgeCondition(ctx context.Context, doc *model.ParsedDocument, docType model.DocumentType, cond condition) (*conditionOutcome, error) {
	outcome := &conditionOutcome{}

	query := fmt.Sprintf(cond.queryFormat, docType.DisplayName())
	retrieved, err := s.retriever.Retrieve(ctx, query, 0)
	if err != nil {
		return nil, err
	}
	if len(retrieved.Passages) == 0 {
		s.log.Debug("no grounding passages, skipping dimension", "dimension", cond.name)
		return outcome, nil
	}

	resp, err := s.completeWithRetry(ctx, backend.CompletionRequest{
		System:    synthSystem,
		Prompt:    s.buildPrompt(doc, docType, cond, retrieved),
		MaxTokens: 800,
		ForceJSON: true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn("synthesis failed, dimension skipped", "dimension", cond.name, "error", err)
		outcome.warning = fmt.Sprintf("synthesis skipped for %s: %v", cond.name, err)
		return outcome, nil
	}

	j, err := parseJudgment(resp.Text)
	if err != nil {
		s.log.Warn("discarded unparseable judgment", "dimension", cond.name, "error", err)
		outcome.warning = fmt.Sprintf("discarded judgment for %s: %v", cond.name, err)
		return outcome, nil
	}

	citations := s.resolveCitations(retrieved)
	for _, ji := range j.Issues {
		issue, ok := s.buildIssue(ji, j, cond, docType, citations)
		if !ok {
			s.log.Warn("dropped finding with unrecognized severity",
				"dimension", cond.name, "severity", ji.Severity)
			continue
		}
		outcome.issues = append(outcome.issues, issue)
	}
	outcome.recommendations = append(outcome.recommendations, j.Recommendations...)
	outcome.degraded = retrieved.Degraded && len(outcome.issues) > 0
	return outcome, nil
}

// buildPrompt assembles the chain-of-thought judgment prompt from the
// retrieved context and a document excerpt
func (s *Synthesizer) buildPrompt(doc *model.ParsedDocument, docType model.DocumentType, cond condition, retrieved *model.RetrievalResult) string {
	var grounding strings.Builder
	for i, sp := range retrieved.Passages {
		if i >= contextPassageCount {
			break
		}
		if i > 0 {
			grounding.WriteString("\n\n")
		}
		fmt.Fprintf(&grounding, "Source: %s\n%s", sp.Passage.SourceTitle, sp.Passage.Text)
	}

	return fmt.Sprintf(`Context from ADGM Regulations:
%s

Document type: %s

Document excerpt:
%s

Task: %s

Think through this step-by-step:
1. Identify the specific ADGM regulation or requirement in question
2. Check if the document complies with the identified regulations
3. List any specific violations or issues
4. Provide actionable recommendations

Respond in JSON format:
{
    "reasoning_steps": ["step1", "step2"],
    "applicable_regulations": ["regulation1"],
    "compliance_status": "compliant/non-compliant/review_required",
    "issues": [{"description": "what is wrong", "severity": "critical/high/medium/low", "recommendation": "how to fix it"}],
    "recommendations": ["recommendation1"],
    "confidence": 0.0
}`, grounding.String(), docType.DisplayName(), excerpt(doc.RawText, excerptLimit), cond.focus)
}

// buildIssue converts one parsed judgment issue into a model issue. Returns
// false when the severity tier is unrecognized.
func (s *Synthesizer) buildIssue(ji judgmentIssue, j *judgment, cond condition, docType model.DocumentType, citations []string) (model.Issue, bool) {
	severity, ok := model.ParseSeverity(strings.ToLower(strings.TrimSpace(ji.Severity)))
	if !ok {
		return model.Issue{}, false
	}

	confidence := *j.Confidence
	if confidence >= 1 {
		confidence = 0.99
	}

	var regulation string
	if len(j.ApplicableRegulations) > 0 {
		regulation = strings.TrimSpace(j.ApplicableRegulations[0])
	}

	return model.Issue{
		ID:              uuid.NewString(),
		SourceKind:      model.SourceAISuggestion,
		Severity:        severity,
		Topic:           s.classifyTopic(ji.Description, cond, docType),
		Description:     strings.TrimSpace(ji.Description),
		Suggestion:      strings.TrimSpace(ji.Recommendation),
		Regulation:      regulation,
		BlockIndex:      -1,
		CitedPassageIDs: citations,
		Confidence:      confidence,
	}, true
}

// resolveCitations returns the top retrieved passage ids that resolve in the
// store. Every advisory finding cites only passages that were actually
// retrieved for its dimension.
func (s *Synthesizer) resolveCitations(retrieved *model.RetrievalResult) []string {
	var ids []string
	for _, sp := range retrieved.Passages {
		if len(ids) >= citationCount {
			break
		}
		if _, ok := s.store.Lookup(sp.Passage.ID); ok {
			ids = append(ids, sp.Passage.ID)
		}
	}
	return ids
}

// completeWithRetry retries transient backend failures with exponential backoff
func (s *Synthesizer) completeWithRetry(ctx context.Context, req backend.CompletionRequest) (*backend.CompletionResponse, error) {
	var resp *backend.CompletionResponse
	var err error
	for attempt := 0; attempt < synthMaxRetries; attempt++ {
		resp, err = s.provider.Complete(ctx, req)
		if err == nil || !model.IsBackendUnavailable(err) || ctx.Err() != nil {
			return resp, err
		}
		if attempt < synthMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			synthSleepFunc(backoff)
		}
	}
	return resp, err
}

// coveredByRules reports whether any rule finding carries the topic prefix
func coveredByRules(ruleIssues []model.Issue, prefix string) bool {
	for _, issue := range ruleIssues {
		if strings.HasPrefix(issue.Topic, prefix) {
			return true
		}
	}
	return false
}

// excerpt returns the leading runes of text up to limit
func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
