package model

// Passage is an immutable unit of regulatory source text with provenance.
// Created once by corpus ingestion, read-only thereafter; the stable ID is
// the citation handle issues carry.
type Passage struct {
	ID              string    `json:"id"`                  // Stable citation id
	SourceTitle     string    `json:"source_title"`        // Provenance (e.g., "ADGM Companies Regulations 2020")
	JurisdictionTag string    `json:"jurisdiction_tag"`    // Jurisdiction scope (e.g., "ADGM")
	Text            string    `json:"text"`                // Passage body
	Embedding       []float32 `json:"embedding,omitempty"` // Precomputed vector, may be empty in lexical-only corpora
}

// ScoredPassage pairs a passage with its relevance score for one query
type ScoredPassage struct {
	Passage   Passage `json:"passage"`
	Relevance float64 `json:"relevance"` // Final relevance in [0,1]
}

// RetrievalResult is the ordered outcome of one retrieval call.
// Passages are sorted by relevance descending, ties broken by passage id
// ascending so repeated calls over an unchanged corpus return the same order.
type RetrievalResult struct {
	Query      string          `json:"query"`              // Original query before expansion
	Expanded   []string        `json:"expanded,omitempty"` // Queries actually searched
	Passages   []ScoredPassage `json:"passages"`           // Ranked results, length <= topK
	Degraded   bool            `json:"degraded"`           // True when dense scoring or re-ranking was skipped
	Confidence float64         `json:"confidence"`         // Overall retrieval confidence in [0,1]
}

// PassageIDs returns the ids of the ranked passages in order
func (r *RetrievalResult) PassageIDs() []string {
	ids := make([]string, 0, len(r.Passages))
	for _, sp := range r.Passages {
		ids = append(ids, sp.Passage.ID)
	}
	return ids
}

// Top returns the best-ranked passage and true, or a zero value and false
// when the result is empty.
func (r *RetrievalResult) Top() (ScoredPassage, bool) {
	if len(r.Passages) == 0 {
		return ScoredPassage{}, false
	}
	return r.Passages[0], true
}
