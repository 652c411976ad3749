package synth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/clausula/internal/model"
)

// judgment is the structured completion the backend returns for one dimension
type judgment struct {
	ReasoningSteps        []string        `json:"reasoning_steps"`
	ApplicableRegulations []string        `json:"applicable_regulations"`
	ComplianceStatus      string          `json:"compliance_status"`
	Issues                []judgmentIssue `json:"issues"`
	Recommendations       []string        `json:"recommendations"`
	Confidence            *float64        `json:"confidence"`
}

// judgmentIssue is one finding inside a judgment. Some models return issues
// as bare strings; those are accepted with a medium severity.
type judgmentIssue struct {
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

func (ji *judgmentIssue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		ji.Description = s
		ji.Severity = string(model.SeverityMedium)
		return nil
	}
	type plain judgmentIssue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*ji = judgmentIssue(p)
	return nil
}

// parseJudgment parses untrusted backend output into a judgment. A judgment
// without an explicit in-range confidence is rejected; confidence is never
// defaulted.
func parseJudgment(text string) (*judgment, error) {
	raw := extractJSON(text)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object in completion", model.ErrMalformedResponse)
	}

	var j judgment
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)
	}
	if j.Confidence == nil {
		return nil, fmt.Errorf("%w: judgment carries no confidence", model.ErrMalformedResponse)
	}
	if *j.Confidence < 0 || *j.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v out of range", model.ErrMalformedResponse, *j.Confidence)
	}
	return &j, nil
}

// extractJSON returns the outermost JSON object in text, tolerating code
// fences and prose around it
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// classifyTopic maps an advisory finding onto the rule validator's topic
// namespace. A finding that restates a deterministic check lands on the same
// topic, so the aggregator recognizes it as a duplicate and keeps the
// rule-based version.
func (s *Synthesizer) classifyTopic(description string, cond condition, docType model.DocumentType) string {
	lower := strings.ToLower(description)

	for _, p := range s.rb.Jurisdiction.Prohibited {
		if strings.Contains(lower, strings.ToLower(p.Phrase)) {
			return "jurisdiction:" + strings.ToLower(p.Phrase)
		}
	}
	for _, rule := range s.rb.SectionsFor(docType) {
		if strings.Contains(lower, rule.Key) {
			return "section:" + rule.Key
		}
	}
	if strings.Contains(lower, "signature") || strings.Contains(lower, "signatory") {
		if strings.Contains(lower, "name") || strings.Contains(lower, "date") || strings.Contains(lower, "incomplete") {
			return "signatory:fields"
		}
		return "signatory:block"
	}
	if cond.name == "language" {
		for _, wp := range s.weakPatterns {
			if wp.pattern.MatchString(lower) {
				return "language:" + wp.term
			}
		}
	}
	return "ai:" + cond.name
}
