package score

import (
	"reflect"
	"testing"

	"github.com/ppiankov/clausula/internal/model"
)

func finding(kind model.SourceKind, topic string, sev model.Severity) model.Issue {
	return model.Issue{SourceKind: kind, Topic: topic, Severity: sev}
}

func TestRecommendations_PriorityOrderAndCap(t *testing.T) {
	issues := []model.Issue{
		finding(model.SourceRuleBased, "jurisdiction:difc", model.SeverityCritical),
		finding(model.SourceRuleBased, "section:salary", model.SeverityHigh),
		finding(model.SourceRuleBased, "language:may", model.SeverityMedium),
		finding(model.SourceRuleBased, "language:should", model.SeverityMedium),
		finding(model.SourceRuleBased, "signatory:fields", model.SeverityLow),
	}
	missing := []string{"Memorandum of Association", "UBO Declaration Form"}

	got := Recommendations(issues, missing, []string{"Check working hours"})

	want := []string{
		"Upload missing documents: Memorandum of Association, UBO Declaration Form",
		"Fix 1 critical compliance issues immediately",
		"Address 1 high-severity issues before submission",
		"Update all jurisdiction references to 'Abu Dhabi Global Market (ADGM)'",
		"Replace 2 weak-language terms with binding language (shall, must)",
		"Add missing required sections per ADGM regulatory templates",
		"Complete all signature blocks with names, titles, and dates",
		"Address 2 medium-priority issues for better compliance",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %#v, want %#v", got, want)
	}
	// The cap left no room for the advisory entry
	if len(got) != maxRecommendations {
		t.Errorf("len = %d, want %d", len(got), maxRecommendations)
	}
}

func TestRecommendations_AdvisorySeverityCounts(t *testing.T) {
	// Advisory findings count toward the critical total but not toward the
	// high or medium ones
	issues := []model.Issue{
		finding(model.SourceAISuggestion, "ai:jurisdiction", model.SeverityCritical),
		finding(model.SourceAISuggestion, "ai:completeness", model.SeverityHigh),
		finding(model.SourceAISuggestion, "ai:language", model.SeverityMedium),
	}

	got := Recommendations(issues, nil, nil)

	want := []string{"Fix 1 critical compliance issues immediately"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %#v, want %#v", got, want)
	}
}

func TestRecommendations_CleanDocuments(t *testing.T) {
	got := Recommendations(nil, nil, nil)

	want := []string{"Documents appear fully compliant with ADGM regulations"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %#v, want %#v", got, want)
	}
}

func TestRecommendations_MinorIssuesOnly(t *testing.T) {
	issues := []model.Issue{
		finding(model.SourceRuleBased, "language:may", model.SeverityMedium),
	}

	got := Recommendations(issues, nil, nil)

	want := []string{
		"Replace 1 weak-language terms with binding language (shall, must)",
		"Address 1 medium-priority issues for better compliance",
		"Documents are largely compliant - address minor issues and submit",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %#v, want %#v", got, want)
	}
}

func TestRecommendations_DedupAndTrim(t *testing.T) {
	issues := []model.Issue{
		finding(model.SourceRuleBased, "jurisdiction:difc", model.SeverityCritical),
	}
	advisory := []string{
		"  fix 1 critical compliance issues immediately  ",
		"Adopt ADGM governing law",
		"",
		"Adopt ADGM governing law",
	}

	got := Recommendations(issues, nil, advisory)

	want := []string{
		"Fix 1 critical compliance issues immediately",
		"Update all jurisdiction references to 'Abu Dhabi Global Market (ADGM)'",
		"Adopt ADGM governing law",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %#v, want %#v", got, want)
	}
}
