package engine

import (
	"sort"

	"github.com/ppiankov/clausula/internal/model"
)

// dedupKey identifies duplicate findings across sources: the same topic at
// the same severity tier
type dedupKey struct {
	topic    string
	severity model.Severity
}

// Aggregate merges rule findings with advisory findings into one list ordered
// severity critical to info, detection order within a tier.
//
// An advisory finding whose topic and severity a rule finding already covers
// is dropped; the rule finding survives. Rule findings never collapse against
// each other: the validator emits one finding per occurrence and each
// occurrence scores. Advisory findings that duplicate each other collapse to
// the first.
func Aggregate(ruleIssues, aiIssues []model.Issue) []model.Issue {
	covered := make(map[dedupKey]bool, len(ruleIssues)+len(aiIssues))
	merged := make([]model.Issue, 0, len(ruleIssues)+len(aiIssues))

	for _, issue := range ruleIssues {
		covered[dedupKey{topic: issue.Topic, severity: issue.Severity}] = true
		merged = append(merged, issue)
	}
	for _, issue := range aiIssues {
		key := dedupKey{topic: issue.Topic, severity: issue.Severity}
		if covered[key] {
			continue
		}
		covered[key] = true
		merged = append(merged, issue)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Severity.Rank() < merged[j].Severity.Rank()
	})
	return merged
}
