package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/clausula/internal/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		AnalysisID:     "a1b2c3",
		DocumentName:   "Employment Contract.docx",
		AnalyzedAt:     time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		DocumentType:   model.TypeEmploymentContract,
		TypeConfidence: 0.8,
		Issues: []model.Issue{
			{
				ID:              "i-1",
				SourceKind:      model.SourceRuleBased,
				Severity:        model.SeverityCritical,
				Topic:           "jurisdiction:dubai courts",
				Description:     "References Dubai Courts instead of ADGM Courts",
				Suggestion:      "Replace with ADGM Courts",
				Regulation:      "ADGM Courts Regulations 2015",
				BlockIndex:      2,
				CitedPassageIDs: []string{"cite-juris"},
				Confidence:      1,
			},
			{
				ID:          "i-2",
				SourceKind:  model.SourceAISuggestion,
				Severity:    model.SeverityMedium,
				Topic:       "ai:language",
				Description: "Uses non-binding language in the notice clause",
				BlockIndex:  -1,
				Confidence:  0.7,
			},
		},
		MissingSections: []string{"termination"},
		PresentSections: []string{"salary"},
		Score: model.ComplianceScore{
			Value:          75,
			Level:          model.LevelMostlyCompliant,
			MissingPenalty: 12.5,
			PresentBonus:   7.5,
			Signals: []model.ScoreSignal{
				{Kind: "severity_deduction", Description: "1 critical issue", Delta: -15},
				{Kind: "completeness_bonus", Description: "1 of 2 required sections present", Delta: 7.5},
			},
		},
		Status:          model.StatusPartialWithWarnings,
		Warnings:        []string{"inference backend unavailable"},
		Recommendations: []string{"Fix 1 critical compliance issues immediately"},
	}
}

func TestDocumentMarkdown(t *testing.T) {
	md := NewRenderer(false).DocumentMarkdown(sampleResult())

	wants := []string{
		"# Compliance Report: Employment Contract.docx",
		"- Document type: Employment Contract (confidence 80%)",
		"- Analyzed: 2025-06-01 10:30 UTC",
		"- Status: partial_with_warnings",
		"- Analysis ID: a1b2c3",
		"## Score: 75/100 (mostly_compliant)",
		"PASS - Good compliance, minor review recommended",
		"| severity_deduction | -15.0 | 1 critical issue |",
		"| completeness_bonus | +7.5 | 1 of 2 required sections present |",
		"## Findings (2)",
		"### Critical (1)",
		"- **References Dubai Courts instead of ADGM Courts** `jurisdiction:dubai courts`",
		"  - source: rule_based, confidence 100%",
		"  - block: 2",
		"  - regulation: ADGM Courts Regulations 2015",
		"  - suggestion: Replace with ADGM Courts",
		"  - citations: cite-juris",
		"### Medium (1)",
		"  - source: ai_suggestion, confidence 70%",
		"- [x] salary",
		"- [ ] termination (missing)",
		"1. Fix 1 critical compliance issues immediately",
		"- inference backend unavailable",
	}
	for _, want := range wants {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}

	if strings.Contains(md, "block: -1") {
		t.Error("issue without a block reference should omit the block line")
	}
	if strings.Contains(md, "Generated by clausula") {
		t.Error("footer rendered without includeFooter")
	}
}

func TestDocumentMarkdown_FooterAndEmptyFindings(t *testing.T) {
	result := &model.AnalysisResult{
		AnalysisID:   "x",
		DocumentName: "clean.txt",
		DocumentType: model.TypeGeneralDocument,
		Score:        model.ComplianceScore{Value: 100, Level: model.LevelCompliant},
		Status:       model.StatusComplete,
	}
	md := NewRenderer(true).DocumentMarkdown(result)

	if !strings.Contains(md, "No compliance issues found.") {
		t.Error("empty findings section not rendered")
	}
	if !strings.Contains(md, "Generated by clausula") {
		t.Error("footer missing with includeFooter set")
	}
}

func TestBatchMarkdown(t *testing.T) {
	docB := &model.AnalysisResult{
		AnalysisID:     "d4e5f6",
		DocumentName:   "resolution.txt",
		DocumentType:   model.TypeBoardResolution,
		TypeConfidence: 0.6,
		Issues: []model.Issue{{
			ID:          "i-3",
			SourceKind:  model.SourceAISuggestion,
			Severity:    model.SeverityMedium,
			Topic:       "ai:language",
			Description: "Uses non-binding language",
			BlockIndex:  -1,
			Confidence:  0.7,
		}},
		Score:  model.ComplianceScore{Value: 90, Level: model.LevelCompliant},
		Status: model.StatusPartialWithWarnings,
	}

	summary := &model.BatchSummary{
		StartedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC),
		Total:      3,
		Complete:   1,
		Partial:    1,
		Failed:     1,
		SeverityBreakdown: map[model.Severity]int{
			model.SeverityCritical: 1,
			model.SeverityMedium:   2,
		},
		SourceBreakdown: map[model.SourceKind]int{
			model.SourceRuleBased:    1,
			model.SourceAISuggestion: 2,
		},
		Process: &model.ChecklistReport{
			Process:       "company_incorporation",
			RequiredCount: 5,
			PresentDocs:   []string{"Articles of Association"},
			MissingDocs:   []string{"Board Resolution"},
		},
		Documents: []*model.AnalysisResult{sampleResult(), docB},
		Errors:    map[string]string{"broken.txt": "unsupported format"},
	}

	md := NewRenderer(false).BatchMarkdown(summary)

	wants := []string{
		"# Batch Compliance Report",
		"- Documents: 3 (complete 1, partial 1, failed 1)",
		"- Started: 2025-06-01 10:00 UTC",
		"## Process: company_incorporation",
		"Required documents present: 1 of 5",
		"- [x] Articles of Association",
		"- [ ] Board Resolution (missing)",
		"| Employment Contract.docx | Employment Contract | 75 | mostly_compliant | 2 | partial_with_warnings |",
		"| resolution.txt | Board Resolution | 90 | compliant | 1 | partial_with_warnings |",
		"| critical | 1 |",
		"| medium | 2 |",
		"| rule_based | 1 |",
		"| ai_suggestion | 2 |",
		"- broken.txt: unsupported format",
		"1. Upload missing documents: Board Resolution",
		"2. Fix 1 critical compliance issues immediately",
	}
	for _, want := range wants {
		if !strings.Contains(md, want) {
			t.Errorf("batch report missing %q", want)
		}
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).Summary(&buf, sampleResult())
	out := buf.String()

	wants := []string{
		"Document: Employment Contract.docx",
		"Type:     Employment Contract (confidence 80%)",
		"Score:    75/100 (mostly_compliant)",
		"Issues:   2 (1 critical, 1 medium)",
		"Warnings: 1",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestSummary_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).Summary(&buf, &model.AnalysisResult{
		DocumentName: "clean.txt",
		DocumentType: model.TypeGeneralDocument,
		Score:        model.ComplianceScore{Value: 100, Level: model.LevelCompliant},
		Status:       model.StatusComplete,
	})
	out := buf.String()

	if !strings.Contains(out, "Issues:   none") {
		t.Errorf("expected no-issue summary, got:\n%s", out)
	}
	if strings.Contains(out, "Warnings:") {
		t.Error("warning line rendered for a complete result")
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := NewRenderer(false).WriteJSON(sampleResult(), path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("report should end with a newline")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded["analysis_id"] != "a1b2c3" {
		t.Errorf("analysis_id = %v, want a1b2c3", decoded["analysis_id"])
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Employment Contract.docx", "employment-contract"},
		{"AoA (Final v2).PDF", "aoa-final-v2"},
		{"board_resolution.md", "board_resolution"},
		{"/tmp/docs/Notice.TXT", "notice"},
		{"???.txt", "document"},
		{"", "document"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
