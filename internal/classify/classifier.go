// Package classify assigns document-type labels from lexical cues.
package classify

import (
	"strings"

	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/rulebook"
)

// leadBlocks is how many opening blocks count as the title zone
const leadBlocks = 15

// Classifier scores a document against per-type cue profiles and picks the
// best match, falling back to unknown when the margin over the runner-up is
// too thin. It never errors: malformed input degrades to low confidence.
type Classifier struct {
	cues      []rulebook.TypeCue
	threshold float64
}

// NewClassifier creates a classifier from the rulebook's cue table
func NewClassifier(rb *rulebook.Rulebook, confidenceThreshold float64) *Classifier {
	return &Classifier{
		cues:      rb.TypeCues,
		threshold: confidenceThreshold,
	}
}

// Classify returns the best-matching document type and a confidence in [0,1].
// Documents with no recognizable cues, or where the best type's margin over
// the runner-up falls below the threshold, classify as unknown.
func (c *Classifier) Classify(doc *model.ParsedDocument) (model.DocumentType, float64) {
	if doc.IsEmpty() {
		return model.TypeUnknown, 0
	}

	text := doc.LowerText()
	lead := doc.LeadingText(leadBlocks)

	scores := make(map[model.DocumentType]float64)
	var order []model.DocumentType // cue priority order, for deterministic tie-breaks

	for _, cue := range c.cues {
		s := cueScore(cue, text, lead)
		if s <= 0 {
			continue
		}
		if _, seen := scores[cue.Type]; !seen {
			order = append(order, cue.Type)
		}
		scores[cue.Type] += s
	}

	if len(scores) == 0 {
		return model.TypeUnknown, 0
	}

	best, runnerUp := topTwo(scores, order)
	margin := (scores[best] - runnerUp) / scores[best]
	strength := scores[best] / 4.0
	if strength > 1 {
		strength = 1
	}
	confidence := 0.5*margin + 0.5*strength

	if confidence < c.threshold {
		return model.TypeUnknown, confidence
	}
	return best, confidence
}

// cueScore evaluates one cue entry against the document text.
// Returns 0 when the entry's gates fail; otherwise a positive weight where
// title-zone hits count more than body hits and indicators corroborate.
func cueScore(cue rulebook.TypeCue, text, lead string) float64 {
	phraseHits := countContained(text, cue.Phrases)
	leadHits := countContained(lead, cue.LeadPhrases)

	gated := len(cue.Phrases) == 0 && len(cue.LeadPhrases) == 0
	if !gated && phraseHits == 0 && leadHits == 0 {
		return 0
	}

	for _, term := range cue.AllOf {
		if !strings.Contains(text, term) {
			return 0
		}
	}

	indicatorHits := countContained(text, cue.Indicators)
	if len(cue.Indicators) > 0 && indicatorHits == 0 {
		return 0
	}

	score := float64(phraseHits) + 1.5*float64(leadHits) + 0.25*float64(indicatorHits)
	if gated {
		// Pure all-of entries (no phrase list) score from their required terms
		score += 0.75 * float64(len(cue.AllOf))
	}
	return score
}

func countContained(haystack string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			n++
		}
	}
	return n
}

// topTwo returns the best-scoring type and the runner-up score. Equal scores
// resolve in cue priority order so classification is deterministic.
func topTwo(scores map[model.DocumentType]float64, order []model.DocumentType) (model.DocumentType, float64) {
	best := order[0]
	for _, t := range order[1:] {
		if scores[t] > scores[best] {
			best = t
		}
	}
	runnerUp := 0.0
	for _, t := range order {
		if t == best {
			continue
		}
		if scores[t] > runnerUp {
			runnerUp = scores[t]
		}
	}
	return best, runnerUp
}
