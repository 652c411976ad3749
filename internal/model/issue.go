package model

// Issue is a single compliance finding. Immutable after creation; consumed
// read-only by the aggregator and the scorer.
type Issue struct {
	ID              string     `json:"id"`                          // Unique within one analysis (uuid)
	SourceKind      SourceKind `json:"source_kind"`                 // rule_based or ai_suggestion
	Severity        Severity   `json:"severity"`                    // critical, high, medium, low, info
	Topic           string     `json:"topic"`                       // Canonical section/topic key for dedup and citation queries
	Description     string     `json:"description"`                 // What is wrong
	Suggestion      string     `json:"suggestion,omitempty"`        // How to fix it
	Regulation      string     `json:"regulation,omitempty"`        // Regulation reference (e.g., "ADGM Companies Regulations 2020, Art. 6")
	BlockIndex      int        `json:"block_index"`                 // Block where detected, -1 for document-level findings
	CitedPassageIDs []string   `json:"cited_passage_ids,omitempty"` // Grounding passages, possibly empty
	Confidence      float64    `json:"confidence"`                  // 1.0 for rule_based, <1.0 for ai_suggestion
}

// SourceKind identifies which detector produced an issue
type SourceKind string

const (
	SourceRuleBased    SourceKind = "rule_based"    // Deterministic pattern check, full trust
	SourceAISuggestion SourceKind = "ai_suggestion" // Inference-backed finding, advisory only
)

// Severity orders the weight of an issue
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityRank maps severities to a sort rank, critical first
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

// Rank returns the sort rank of a severity (critical=0 .. info=4).
// Unrecognized severities sort last.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// ParseSeverity normalizes a severity string from untrusted backend output.
// Returns the parsed severity and true, or SeverityInfo and false when the
// input is not a recognized tier.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return Severity(s), true
	}
	return SeverityInfo, false
}
