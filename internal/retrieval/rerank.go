package retrieval

import "strings"

// Re-rank blend: the coarse hybrid score is kept as a component so the dense
// signal survives re-ranking
const (
	rerankCoarseWeight = 0.4
	rerankFinerWeight  = 0.6
)

// finerRelevance scores one (query, passage) pair on query-term coverage,
// adjacent-bigram overlap, and an exact-phrase hit. All components are in
// [0,1] and fully deterministic.
func finerRelevance(queryTokens []string, queryBigrams map[string]struct{}, queryLower string, e *passageEntry) float64 {
	cov := coverage(queryTokens, e.tokens)

	var bigramOverlap float64
	if len(queryBigrams) > 0 {
		hits := 0
		for b := range queryBigrams {
			if _, ok := e.bigrams[b]; ok {
				hits++
			}
		}
		bigramOverlap = float64(hits) / float64(len(queryBigrams))
	}

	var phrase float64
	if queryLower != "" && strings.Contains(e.lowerText, queryLower) {
		phrase = 1
	}

	return 0.6*cov + 0.25*bigramOverlap + 0.15*phrase
}
