package score

import (
	"fmt"
	"strings"

	"github.com/ppiankov/clausula/internal/model"
)

// maxRecommendations caps the action list so reports stay scannable
const maxRecommendations = 8

// Recommendations derives an ordered action list from the aggregated findings
// and any missing process documents, then appends advisory recommendations
// from the synthesis pass. Repeats are dropped and the list is capped.
//
// Critical counts include advisory findings; high and medium counts are
// rule-based only, mirroring how the score treats them.
func Recommendations(issues []model.Issue, missingDocs []string, advisory []string) []string {
	var recs []string

	if len(missingDocs) > 0 {
		recs = append(recs, "Upload missing documents: "+strings.Join(missingDocs, ", "))
	}

	var critical, high, medium, weakTerms int
	var jurisdiction, sections, signatures bool
	for _, issue := range issues {
		ruleBased := issue.SourceKind == model.SourceRuleBased
		switch issue.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityHigh:
			if ruleBased {
				high++
			}
		case model.SeverityMedium:
			if ruleBased {
				medium++
			}
		}
		switch {
		case strings.HasPrefix(issue.Topic, "jurisdiction:"):
			jurisdiction = true
		case strings.HasPrefix(issue.Topic, "language:"):
			weakTerms++
		case strings.HasPrefix(issue.Topic, "section:"):
			sections = true
		case strings.HasPrefix(issue.Topic, "signatory:"):
			signatures = true
		}
	}

	if critical > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d critical compliance issues immediately", critical))
	}
	if high > 0 {
		recs = append(recs, fmt.Sprintf("Address %d high-severity issues before submission", high))
	}
	if jurisdiction {
		recs = append(recs, "Update all jurisdiction references to 'Abu Dhabi Global Market (ADGM)'")
	}
	if weakTerms > 0 {
		recs = append(recs, fmt.Sprintf("Replace %d weak-language terms with binding language (shall, must)", weakTerms))
	}
	if sections {
		recs = append(recs, "Add missing required sections per ADGM regulatory templates")
	}
	if signatures {
		recs = append(recs, "Complete all signature blocks with names, titles, and dates")
	}
	if medium > 0 {
		recs = append(recs, fmt.Sprintf("Address %d medium-priority issues for better compliance", medium))
	}

	if len(missingDocs) == 0 && critical == 0 && high == 0 {
		if medium > 0 {
			recs = append(recs, "Documents are largely compliant - address minor issues and submit")
		} else {
			recs = append(recs, "Documents appear fully compliant with ADGM regulations")
		}
	}

	seen := make(map[string]bool, len(recs)+len(advisory))
	out := make([]string, 0, len(recs)+len(advisory))
	for _, r := range append(recs, advisory...) {
		r = strings.TrimSpace(r)
		key := strings.ToLower(r)
		if r == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}
