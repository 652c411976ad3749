// Package retrieval implements the knowledge retrieval pipeline: query
// expansion, hybrid sparse+dense scoring over a corpus snapshot, and
// deterministic re-ranking. The pipeline degrades to lexical-only scoring
// when the embedding backend is missing or failing, and flags the result so
// downstream confidence can be lowered.
package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/ppiankov/clausula/internal/kb"
	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/model"
)

// Retriever runs retrieval over one corpus snapshot. Construction precomputes
// lexical features per passage; the retriever is then safe for concurrent use.
type Retriever struct {
	entries  []passageEntry
	byID     map[string]int
	expander *Expander
	embedder *CachedEmbedder
	cfg      model.RetrievalConfig
	log      logging.Logger
}

type passageEntry struct {
	passage   model.Passage
	lowerText string
	tokens    map[string]struct{}
	bigrams   map[string]struct{}
}

// NewRetriever builds a retriever over the store snapshot. embedder may be
// nil; retrieval then runs lexical-only and every result is flagged degraded.
func NewRetriever(store kb.Store, expander *Expander, embedder *CachedEmbedder, cfg model.RetrievalConfig, log logging.Logger) *Retriever {
	r := &Retriever{
		byID:     make(map[string]int),
		expander: expander,
		embedder: embedder,
		cfg:      cfg,
		log:      logging.OrNop(log),
	}
	for _, p := range store.All() {
		tokens := tokenize(p.Text)
		r.byID[p.ID] = len(r.entries)
		r.entries = append(r.entries, passageEntry{
			passage:   p,
			lowerText: strings.ToLower(p.Text),
			tokens:    tokenSet(tokens),
			bigrams:   bigrams(tokens),
		})
	}
	return r
}

// Retrieve returns the topK most relevant passages for the query. The call
// never fails on backend trouble; it degrades and flags the result. The only
// returned error is context cancellation.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*model.RetrievalResult, error) {
	if topK <= 0 {
		topK = r.cfg.TopK
	}
	result := &model.RetrievalResult{Query: query}
	query = strings.TrimSpace(query)
	if query == "" || len(r.entries) == 0 {
		return result, nil
	}

	queries, expandDegraded := r.expander.Expand(ctx, query)
	if len(queries) > 1 {
		result.Expanded = queries[1:]
	}

	wd, ws := normalizedWeights(r.cfg.DenseWeight, r.cfg.SparseWeight)

	denseDegraded := false
	merged := make(map[string]float64)
	for _, q := range queries {
		qTokens := tokenSet(tokenize(q))

		var qVec []float32
		if r.embedder == nil {
			denseDegraded = true
		} else {
			vec, err := r.embedder.Embed(ctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				denseDegraded = true
				r.log.Warn("query embedding failed, scoring lexical-only", "query", q, "error", err)
			} else {
				qVec = vec
			}
		}

		for i := range r.entries {
			e := &r.entries[i]
			sparse := jaccard(qTokens, e.tokens)

			var score float64
			switch {
			case qVec != nil && len(e.passage.Embedding) > 0:
				dense := cosine(qVec, e.passage.Embedding)
				if dense < 0 {
					dense = 0
				}
				score = wd*dense + ws*sparse
			case qVec != nil:
				// Unembedded passage: the dense term contributes zero
				score = ws * sparse
			default:
				score = sparse
			}
			if score <= 0 {
				continue
			}
			if prev, ok := merged[e.passage.ID]; !ok || score > prev {
				merged[e.passage.ID] = score
			}
		}
	}

	candidates := make([]scoredID, 0, len(merged))
	for id, s := range merged {
		candidates = append(candidates, scoredID{id: id, score: s})
	}
	sortCandidates(candidates)

	limit := r.cfg.RerankCandidateCount
	if limit < topK {
		limit = topK
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	// Re-rank against the original query, blending in the coarse score
	queryTokens := tokenize(query)
	queryBigrams := bigrams(queryTokens)
	queryLower := strings.ToLower(query)
	for i := range candidates {
		e := &r.entries[r.byID[candidates[i].id]]
		finer := finerRelevance(queryTokens, queryBigrams, queryLower, e)
		candidates[i].score = rerankCoarseWeight*candidates[i].score + rerankFinerWeight*finer
	}
	sortCandidates(candidates)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	var sum float64
	for _, c := range candidates {
		e := &r.entries[r.byID[c.id]]
		result.Passages = append(result.Passages, model.ScoredPassage{Passage: e.passage, Relevance: c.score})
		sum += c.score
	}

	result.Degraded = expandDegraded || denseDegraded
	if len(result.Passages) > 0 {
		conf := sum / float64(len(result.Passages))
		if result.Degraded {
			conf *= 0.8
		}
		result.Confidence = conf
	}
	return result, nil
}

type scoredID struct {
	id    string
	score float64
}

// sortCandidates orders by score descending, ties by id ascending
func sortCandidates(candidates []scoredID) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})
}

func normalizedWeights(dense, sparse float64) (float64, float64) {
	sum := dense + sparse
	if sum <= 0 {
		return 0.5, 0.5
	}
	return dense / sum, sparse / sum
}
