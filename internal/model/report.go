package model

import "time"

// AnalysisResult is the terminal artifact of one document analysis
type AnalysisResult struct {
	AnalysisID     string       `json:"analysis_id"`             // Unique id for this run (uuid)
	DocumentName   string       `json:"document_name,omitempty"` // Display name of the analyzed document
	AnalyzedAt     time.Time    `json:"analyzed_at"`             // When the analysis completed
	DocumentType   DocumentType `json:"document_type"`           // Classified type
	TypeConfidence float64      `json:"type_confidence"`         // Classifier confidence in [0,1]

	Issues          []Issue  `json:"issues"`                     // Deduplicated, severity-ordered findings
	MissingSections []string `json:"missing_sections,omitempty"` // Required sections not found
	PresentSections []string `json:"present_sections,omitempty"` // Required sections found

	Score ComplianceScore `json:"score"` // Transparent scoring breakdown

	Status   AnalysisStatus `json:"status"`             // complete or partial_with_warnings
	Warnings []string       `json:"warnings,omitempty"` // Degradation notes (backend outages, dropped findings)

	Recommendations []string `json:"recommendations,omitempty"` // Actionable next steps derived from findings
}

// AnalysisStatus distinguishes a fully-evidenced result from a degraded one
type AnalysisStatus string

const (
	StatusComplete            AnalysisStatus = "complete"
	StatusPartialWithWarnings AnalysisStatus = "partial_with_warnings"
)

// ComplianceScore is the transparent scoring breakdown.
// The score is recomputable from its inputs; nothing here is mutated after
// the scorer returns it.
type ComplianceScore struct {
	Value          int             `json:"value"`           // Final compliance score (0-100)
	Level          ComplianceLevel `json:"level"`           // Label derived from Value
	MissingPenalty float64         `json:"missing_penalty"` // Deduction for missing required sections
	PresentBonus   float64         `json:"present_bonus"`   // Applied completeness bonus (after cap)
	Signals        []ScoreSignal   `json:"signals"`         // Per-deduction diagnostic breakdown
}

// ScoreSignal records one scoring contribution with its inputs
type ScoreSignal struct {
	Kind        string                 `json:"kind"`           // e.g., "severity_deduction", "missing_sections", "completeness_bonus"
	Description string                 `json:"description"`    // Human-readable explanation
	Delta       float64                `json:"delta"`          // Signed contribution to the score
	Data        map[string]interface{} `json:"data,omitempty"` // Transparent inputs (counts, weights)
}

// ComplianceLevel is the coarse verdict label derived from the score
type ComplianceLevel string

const (
	LevelCompliant          ComplianceLevel = "compliant"           // >= 85
	LevelMostlyCompliant    ComplianceLevel = "mostly_compliant"    // >= 70
	LevelPartiallyCompliant ComplianceLevel = "partially_compliant" // >= 55
	LevelSignificantIssues  ComplianceLevel = "significant_issues"  // >= 35
	LevelNonCompliant       ComplianceLevel = "non_compliant"       // < 35
)

// LevelForScore maps a final score to its compliance level
func LevelForScore(score int) ComplianceLevel {
	switch {
	case score >= 85:
		return LevelCompliant
	case score >= 70:
		return LevelMostlyCompliant
	case score >= 55:
		return LevelPartiallyCompliant
	case score >= 35:
		return LevelSignificantIssues
	default:
		return LevelNonCompliant
	}
}

// Describe returns the submission guidance for a compliance level
func (l ComplianceLevel) Describe() string {
	switch l {
	case LevelCompliant:
		return "PASS - Excellent compliance, ready for submission"
	case LevelMostlyCompliant:
		return "PASS - Good compliance, minor review recommended"
	case LevelPartiallyCompliant:
		return "REVIEW REQUIRED - Minor corrections needed"
	case LevelSignificantIssues:
		return "REVIEW REQUIRED - Significant corrections needed"
	default:
		return "FAIL - Major compliance issues, rework required"
	}
}

// BatchSummary reports the outcome of a multi-document run
type BatchSummary struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Total    int `json:"total"`    // Documents submitted
	Complete int `json:"complete"` // Fully analyzed
	Partial  int `json:"partial"`  // Analyzed with warnings
	Failed   int `json:"failed"`   // Aborted (input errors, cancellation)

	SeverityBreakdown map[Severity]int   `json:"severity_breakdown"` // Issue counts across all documents
	SourceBreakdown   map[SourceKind]int `json:"source_breakdown"`   // Rule-based vs AI-sourced counts

	Process   *ChecklistReport  `json:"process,omitempty"` // Process checklist verdict, when inferable
	Documents []*AnalysisResult `json:"documents"`         // Per-document results, failed ones omitted
	Errors    map[string]string `json:"errors,omitempty"`  // Document name -> failure reason
}

// ChecklistReport is the process-level completeness verdict for a batch
type ChecklistReport struct {
	Process       string   `json:"process"`        // company_incorporation, licensing, employment
	RequiredCount int      `json:"required_count"` // Documents the process requires
	PresentDocs   []string `json:"present_docs"`   // Canonical names found in the batch
	MissingDocs   []string `json:"missing_docs"`   // Canonical names not found
}
