package engine

import (
	"reflect"
	"testing"

	"github.com/ppiankov/clausula/internal/model"
)

func ruleIssue(topic string, sev model.Severity) model.Issue {
	return model.Issue{
		ID:         "r-" + topic,
		SourceKind: model.SourceRuleBased,
		Severity:   sev,
		Topic:      topic,
		Confidence: 1.0,
	}
}

func advisoryIssue(topic string, sev model.Severity) model.Issue {
	return model.Issue{
		ID:         "a-" + topic,
		SourceKind: model.SourceAISuggestion,
		Severity:   sev,
		Topic:      topic,
		Confidence: 0.8,
	}
}

func TestAggregate_DropsAdvisoryDuplicates(t *testing.T) {
	merged := Aggregate(
		[]model.Issue{ruleIssue("jurisdiction:difc", model.SeverityCritical)},
		[]model.Issue{advisoryIssue("jurisdiction:difc", model.SeverityCritical)},
	)

	if len(merged) != 1 {
		t.Fatalf("merged %d issues, want 1", len(merged))
	}
	if merged[0].SourceKind != model.SourceRuleBased {
		t.Errorf("surviving source = %s, want %s", merged[0].SourceKind, model.SourceRuleBased)
	}
}

func TestAggregate_DifferentSeverityIsNotDuplicate(t *testing.T) {
	merged := Aggregate(
		[]model.Issue{ruleIssue("section:salary", model.SeverityHigh)},
		[]model.Issue{advisoryIssue("section:salary", model.SeverityMedium)},
	)

	if len(merged) != 2 {
		t.Fatalf("merged %d issues, want 2", len(merged))
	}
}

func TestAggregate_KeepsRuleOccurrences(t *testing.T) {
	// The validator flags every block where a phrase appears; two occurrences
	// stay two findings
	first := ruleIssue("jurisdiction:dubai courts", model.SeverityCritical)
	second := ruleIssue("jurisdiction:dubai courts", model.SeverityCritical)
	second.ID = "r-second"
	second.BlockIndex = 7

	merged := Aggregate([]model.Issue{first, second}, nil)
	if len(merged) != 2 {
		t.Fatalf("merged %d issues, want 2", len(merged))
	}
}

func TestAggregate_CollapsesAdvisoryRepeats(t *testing.T) {
	first := advisoryIssue("ai:language", model.SeverityMedium)
	second := advisoryIssue("ai:language", model.SeverityMedium)
	second.ID = "a-second"

	merged := Aggregate(nil, []model.Issue{first, second})
	if len(merged) != 1 {
		t.Fatalf("merged %d issues, want 1", len(merged))
	}
	if merged[0].ID != first.ID {
		t.Errorf("surviving id = %s, want first occurrence %s", merged[0].ID, first.ID)
	}
}

func TestAggregate_OrdersBySeverityThenDetection(t *testing.T) {
	merged := Aggregate(
		[]model.Issue{
			ruleIssue("language:may", model.SeverityMedium),
			ruleIssue("jurisdiction:difc", model.SeverityCritical),
			ruleIssue("section:directors", model.SeverityHigh),
		},
		[]model.Issue{
			advisoryIssue("ai:completeness", model.SeverityHigh),
			advisoryIssue("ai:signatory", model.SeverityCritical),
		},
	)

	got := make([]string, len(merged))
	for i, issue := range merged {
		got[i] = issue.Topic
	}
	want := []string{
		"jurisdiction:difc",
		"ai:signatory",
		"section:directors",
		"ai:completeness",
		"language:may",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAggregate_EmptyInputs(t *testing.T) {
	if got := Aggregate(nil, nil); len(got) != 0 {
		t.Errorf("merged %d issues from empty inputs, want 0", len(got))
	}
}
