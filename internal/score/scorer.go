// Package score computes the 0-100 compliance score. The number is a pure
// function of the rule-based findings and the required-section census;
// advisory AI findings never move it. Every contribution is reported as a
// signal so the score can be recomputed by hand from the breakdown.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/clausula/internal/model"
)

// Scorer calculates the compliance score and generates signals
type Scorer struct {
	weights map[model.Severity]int
}

// NewScorer creates a scorer with the given severity weight table. An empty
// table falls back to the built-in weights.
func NewScorer(weights map[model.Severity]int) *Scorer {
	if len(weights) == 0 {
		weights = model.DefaultSeverityWeights()
	}
	return &Scorer{weights: weights}
}

// Calculate computes the score breakdown for one analyzed document.
// missingSections and totalRequired come from the rule validator's
// required-section census; totalRequired of zero means no completeness signal
// applies to the document type.
func (s *Scorer) Calculate(issues []model.Issue, missingSections []string, totalRequired int) model.ComplianceScore {
	var signals []model.ScoreSignal

	// 1. Severity deductions over rule-based issues
	deduction, deductionSignal := s.severityDeductions(issues)
	signals = append(signals, deductionSignal)

	base := 100 + deduction

	// 2. Missing-section penalty
	missingPenalty, missingSignal := s.missingPenalty(len(missingSections), totalRequired)
	signals = append(signals, missingSignal)

	// 3. Completeness bonus. Capped so it can repair the missing-section
	// penalty but never mask severity deductions.
	rawBonus := s.rawBonus(len(missingSections), totalRequired)

	raw := base - missingPenalty + rawBonus
	final := math.Min(clamp(raw), clamp(base))

	appliedBonus := final - clamp(base-missingPenalty)
	if appliedBonus < 0 {
		appliedBonus = 0
	}
	signals = append(signals, model.ScoreSignal{
		Kind:        "completeness_bonus",
		Description: fmt.Sprintf("%d of %d required sections present", totalRequired-len(missingSections), totalRequired),
		Delta:       appliedBonus,
		Data: map[string]interface{}{
			"present":   totalRequired - len(missingSections),
			"total":     totalRequired,
			"raw_bonus": rawBonus,
			"applied":   appliedBonus,
			"formula":   "present / total * 15, capped at the pre-bonus score",
		},
	})

	value := int(math.Round(final))
	return model.ComplianceScore{
		Value:          value,
		Level:          model.LevelForScore(value),
		MissingPenalty: missingPenalty,
		PresentBonus:   appliedBonus,
		Signals:        signals,
	}
}

// severityDeductions sums the weight table over rule-based issues. Advisory
// findings are counted for the signal but deduct nothing.
func (s *Scorer) severityDeductions(issues []model.Issue) (float64, model.ScoreSignal) {
	counts := make(map[string]int)
	deduction := 0
	ruleCount := 0
	aiCount := 0

	for _, issue := range issues {
		if issue.SourceKind != model.SourceRuleBased {
			aiCount++
			continue
		}
		ruleCount++
		counts[string(issue.Severity)]++
		deduction += s.weights[issue.Severity]
	}

	return float64(deduction), model.ScoreSignal{
		Kind:        "severity_deduction",
		Description: describeDeductions(ruleCount, counts),
		Delta:       float64(deduction),
		Data: map[string]interface{}{
			"rule_issues": ruleCount,
			"ai_issues":   aiCount,
			"counts":      counts,
			"formula":     "sum(weight[severity]) over rule-based issues",
		},
	}
}

// missingPenalty computes the missing-section deduction
func (s *Scorer) missingPenalty(missing, total int) (float64, model.ScoreSignal) {
	var penalty float64
	if total > 0 {
		penalty = float64(missing) / float64(total) * 25
	}
	return penalty, model.ScoreSignal{
		Kind:        "missing_sections",
		Description: fmt.Sprintf("%d of %d required sections missing", missing, total),
		Delta:       -penalty,
		Data: map[string]interface{}{
			"missing": missing,
			"total":   total,
			"formula": "missing / total * 25",
		},
	}
}

// rawBonus computes the uncapped completeness bonus
func (s *Scorer) rawBonus(missing, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-missing) / float64(total) * 15
}

// describeDeductions builds the severity breakdown line, worst tier first
func describeDeductions(ruleCount int, counts map[string]int) string {
	if ruleCount == 0 {
		return "No rule-based findings"
	}
	var parts []string
	for _, sev := range []model.Severity{model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow, model.SeverityInfo} {
		if n := counts[string(sev)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	return fmt.Sprintf("%d rule-based findings: %s", ruleCount, strings.Join(parts, ", "))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
