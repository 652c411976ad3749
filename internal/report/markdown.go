package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/score"
)

const timeLayout = "2006-01-02 15:04 MST"

// severityOrder lists the tiers in report order, worst first
var severityOrder = []model.Severity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
	model.SeverityInfo,
}

// DocumentMarkdown renders the full per-document report
func (r *Renderer) DocumentMarkdown(result *model.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Compliance Report: %s\n\n", result.DocumentName)
	fmt.Fprintf(&b, "- Document type: %s (confidence %.0f%%)\n", result.DocumentType.DisplayName(), result.TypeConfidence*100)
	fmt.Fprintf(&b, "- Analyzed: %s\n", result.AnalyzedAt.Format(timeLayout))
	fmt.Fprintf(&b, "- Status: %s\n", result.Status)
	fmt.Fprintf(&b, "- Analysis ID: %s\n\n", result.AnalysisID)

	fmt.Fprintf(&b, "## Score: %d/100 (%s)\n\n", result.Score.Value, result.Score.Level)
	fmt.Fprintf(&b, "%s\n\n", result.Score.Level.Describe())

	if len(result.Score.Signals) > 0 {
		b.WriteString("| Signal | Delta | Detail |\n")
		b.WriteString("|--------|------:|--------|\n")
		for _, s := range result.Score.Signals {
			fmt.Fprintf(&b, "| %s | %+.1f | %s |\n", s.Kind, s.Delta, s.Description)
		}
		b.WriteString("\n")
	}

	writeIssues(&b, result.Issues)

	if len(result.MissingSections) > 0 || len(result.PresentSections) > 0 {
		b.WriteString("## Required sections\n\n")
		for _, s := range result.PresentSections {
			fmt.Fprintf(&b, "- [x] %s\n", s)
		}
		for _, s := range result.MissingSections {
			fmt.Fprintf(&b, "- [ ] %s (missing)\n", s)
		}
		b.WriteString("\n")
	}

	writeRecommendations(&b, result.Recommendations)

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	r.writeFooter(&b)
	return b.String()
}

// WriteDocumentMarkdown renders the per-document report to path
func (r *Renderer) WriteDocumentMarkdown(result *model.AnalysisResult, path string) error {
	if err := os.WriteFile(path, []byte(r.DocumentMarkdown(result)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// BatchMarkdown renders the batch summary report
func (r *Renderer) BatchMarkdown(summary *model.BatchSummary) string {
	var b strings.Builder

	b.WriteString("# Batch Compliance Report\n\n")
	fmt.Fprintf(&b, "- Documents: %d (complete %d, partial %d, failed %d)\n",
		summary.Total, summary.Complete, summary.Partial, summary.Failed)
	fmt.Fprintf(&b, "- Started: %s\n", summary.StartedAt.Format(timeLayout))
	fmt.Fprintf(&b, "- Finished: %s\n\n", summary.FinishedAt.Format(timeLayout))

	if summary.Process != nil {
		fmt.Fprintf(&b, "## Process: %s\n\n", summary.Process.Process)
		fmt.Fprintf(&b, "Required documents present: %d of %d\n\n",
			len(summary.Process.PresentDocs), summary.Process.RequiredCount)
		for _, d := range summary.Process.PresentDocs {
			fmt.Fprintf(&b, "- [x] %s\n", d)
		}
		for _, d := range summary.Process.MissingDocs {
			fmt.Fprintf(&b, "- [ ] %s (missing)\n", d)
		}
		b.WriteString("\n")
	}

	if len(summary.Documents) > 0 {
		b.WriteString("## Documents\n\n")
		b.WriteString("| Document | Type | Score | Level | Issues | Status |\n")
		b.WriteString("|----------|------|------:|-------|-------:|--------|\n")
		for _, doc := range summary.Documents {
			fmt.Fprintf(&b, "| %s | %s | %d | %s | %d | %s |\n",
				doc.DocumentName, doc.DocumentType.DisplayName(), doc.Score.Value,
				doc.Score.Level, len(doc.Issues), doc.Status)
		}
		b.WriteString("\n")
	}

	hasSeverities := false
	for _, sev := range severityOrder {
		if summary.SeverityBreakdown[sev] > 0 {
			hasSeverities = true
			break
		}
	}
	if hasSeverities {
		b.WriteString("## Issues by severity\n\n")
		b.WriteString("| Severity | Count |\n")
		b.WriteString("|----------|------:|\n")
		for _, sev := range severityOrder {
			if n := summary.SeverityBreakdown[sev]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", sev, n)
			}
		}
		b.WriteString("\n")

		b.WriteString("## Issues by source\n\n")
		b.WriteString("| Source | Count |\n")
		b.WriteString("|--------|------:|\n")
		for _, kind := range []model.SourceKind{model.SourceRuleBased, model.SourceAISuggestion} {
			if n := summary.SourceBreakdown[kind]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", kind, n)
			}
		}
		b.WriteString("\n")
	}

	if len(summary.Errors) > 0 {
		b.WriteString("## Failed documents\n\n")
		names := make([]string, 0, len(summary.Errors))
		for name := range summary.Errors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %s\n", name, summary.Errors[name])
		}
		b.WriteString("\n")
	}

	// Batch-level action list from every finding plus the process gaps
	var issues []model.Issue
	for _, doc := range summary.Documents {
		issues = append(issues, doc.Issues...)
	}
	var missing []string
	if summary.Process != nil {
		missing = summary.Process.MissingDocs
	}
	writeRecommendations(&b, score.Recommendations(issues, missing, nil))

	r.writeFooter(&b)
	return b.String()
}

// WriteBatchMarkdown renders the batch report to path
func (r *Renderer) WriteBatchMarkdown(summary *model.BatchSummary, path string) error {
	if err := os.WriteFile(path, []byte(r.BatchMarkdown(summary)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Summary prints the one-screen verdict for a single analysis
func (r *Renderer) Summary(w io.Writer, result *model.AnalysisResult) {
	fmt.Fprintf(w, "Document: %s\n", result.DocumentName)
	fmt.Fprintf(w, "Type:     %s (confidence %.0f%%)\n", result.DocumentType.DisplayName(), result.TypeConfidence*100)
	fmt.Fprintf(w, "Score:    %d/100 (%s)\n", result.Score.Value, result.Score.Level)
	fmt.Fprintf(w, "Verdict:  %s\n", result.Score.Level.Describe())
	fmt.Fprintf(w, "Issues:   %s\n", issueCounts(result.Issues))
	if result.Status == model.StatusPartialWithWarnings {
		fmt.Fprintf(w, "Warnings: %d (analysis degraded, see report)\n", len(result.Warnings))
	}
}

// issueCounts formats "4 (1 critical, 1 high, 2 medium)" or "none"
func issueCounts(issues []model.Issue) string {
	if len(issues) == 0 {
		return "none"
	}
	counts := make(map[model.Severity]int)
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	var parts []string
	for _, sev := range severityOrder {
		if counts[sev] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		}
	}
	return fmt.Sprintf("%d (%s)", len(issues), strings.Join(parts, ", "))
}

func writeIssues(b *strings.Builder, issues []model.Issue) {
	if len(issues) == 0 {
		b.WriteString("## Findings\n\nNo compliance issues found.\n\n")
		return
	}

	fmt.Fprintf(b, "## Findings (%d)\n\n", len(issues))
	for _, sev := range severityOrder {
		var tier []model.Issue
		for _, issue := range issues {
			if issue.Severity == sev {
				tier = append(tier, issue)
			}
		}
		if len(tier) == 0 {
			continue
		}

		fmt.Fprintf(b, "### %s (%d)\n\n", titleCase(string(sev)), len(tier))
		for _, issue := range tier {
			writeIssue(b, issue)
		}
		b.WriteString("\n")
	}
}

// titleCase uppercases the first byte, enough for the severity labels
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeIssue(b *strings.Builder, issue model.Issue) {
	fmt.Fprintf(b, "- **%s** `%s`\n", issue.Description, issue.Topic)
	fmt.Fprintf(b, "  - source: %s, confidence %.0f%%\n", issue.SourceKind, issue.Confidence*100)
	if issue.BlockIndex >= 0 {
		fmt.Fprintf(b, "  - block: %d\n", issue.BlockIndex)
	}
	if issue.Regulation != "" {
		fmt.Fprintf(b, "  - regulation: %s\n", issue.Regulation)
	}
	if issue.Suggestion != "" {
		fmt.Fprintf(b, "  - suggestion: %s\n", issue.Suggestion)
	}
	if len(issue.CitedPassageIDs) > 0 {
		fmt.Fprintf(b, "  - citations: %s\n", strings.Join(issue.CitedPassageIDs, ", "))
	}
}

func writeRecommendations(b *strings.Builder, recs []string) {
	if len(recs) == 0 {
		return
	}
	b.WriteString("## Recommendations\n\n")
	for i, rec := range recs {
		fmt.Fprintf(b, "%d. %s\n", i+1, rec)
	}
	b.WriteString("\n")
}

func (r *Renderer) writeFooter(b *strings.Builder) {
	if !r.includeFooter {
		return
	}
	b.WriteString("---\n\nGenerated by clausula, the ADGM document compliance analyzer.\n")
}
