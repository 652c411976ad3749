package retrieval

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/clausula/internal/kb"
	"github.com/ppiankov/clausula/internal/model"
)

func testRetrievalConfig() model.RetrievalConfig {
	return model.RetrievalConfig{
		TopK:                 5,
		RerankCandidateCount: 10,
		DenseWeight:          0.5,
		SparseWeight:         0.5,
		MaxExpansions:        4,
		CitationFloor:        0.35,
	}
}

func testPassages() []model.Passage {
	return []model.Passage{
		{ID: "jur-001", SourceTitle: "ADGM Courts Regulations", JurisdictionTag: "ADGM", Text: "Disputes shall be referred to ADGM Courts jurisdiction under ADGM law."},
		{ID: "sig-001", SourceTitle: "Execution Requirements", JurisdictionTag: "ADGM", Text: "Signature blocks require signatory name, title and date fields."},
		{ID: "cap-001", SourceTitle: "Share Capital Rules", JurisdictionTag: "ADGM", Text: "Share capital must be denominated in an accepted currency."},
	}
}

// lexicalRetriever builds a retriever with no embedding backend and no query
// expansion, so scoring is sparse-only and fully hand-checkable
func lexicalRetriever(passages []model.Passage) *Retriever {
	expander := NewExpander(nil, nil, 1, 0, nil)
	return NewRetriever(kb.NewSnapshot(passages), expander, nil, testRetrievalConfig(), nil)
}

func TestRetrieve_Deterministic(t *testing.T) {
	expander := NewExpander(nil, nil, 4, 0, nil)
	retriever := NewRetriever(kb.NewSnapshot(testPassages()), expander, nil, testRetrievalConfig(), nil)

	first, err := retriever.Retrieve(context.Background(), "ADGM Courts jurisdiction", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := retriever.Retrieve(context.Background(), "ADGM Courts jurisdiction", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated retrieval diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	if len(first.Passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(first.Passages))
	}
	if first.Passages[0].Passage.ID != "jur-001" {
		t.Errorf("expected jur-001, got %s", first.Passages[0].Passage.ID)
	}
	if len(first.Expanded) != 2 {
		t.Errorf("expected 2 expanded queries, got %v", first.Expanded)
	}

	// Best hybrid score comes from the "governing law" expansion (4 shared
	// tokens of 9), blended with a full re-rank match on the original query.
	wantRelevance := 0.4*(4.0/9.0) + 0.6*1.0
	if got := first.Passages[0].Relevance; !almostEqual(got, wantRelevance) {
		t.Errorf("expected relevance %v, got %v", wantRelevance, got)
	}
}

func TestRetrieve_NoEmbedderIsDegraded(t *testing.T) {
	retriever := lexicalRetriever(testPassages())

	result, err := retriever.Retrieve(context.Background(), "signature blocks", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Degraded {
		t.Error("expected degraded flag without an embedding backend")
	}
	if len(result.Passages) != 1 || result.Passages[0].Passage.ID != "sig-001" {
		t.Fatalf("expected sig-001 only, got %+v", result.Passages)
	}
	if result.Confidence <= 0 {
		t.Errorf("expected positive confidence, got %v", result.Confidence)
	}
}

func TestRetrieve_EmbedderFailureFallsBackToLexical(t *testing.T) {
	stub := &stubEmbedding{err: errors.New("connection refused")}
	embedder := NewCachedEmbedder(stub, nil, "test-model", time.Minute)
	expander := NewExpander(nil, nil, 1, 0, nil)
	retriever := NewRetriever(kb.NewSnapshot(testPassages()), expander, embedder, testRetrievalConfig(), nil)

	result, err := retriever.Retrieve(context.Background(), "signature blocks", 5)
	if err != nil {
		t.Fatalf("backend failure must degrade, not fail: %v", err)
	}
	if !result.Degraded {
		t.Error("expected degraded flag after an embedding failure")
	}
	if len(result.Passages) != 1 || result.Passages[0].Passage.ID != "sig-001" {
		t.Fatalf("expected lexical-only retrieval to still find sig-001, got %+v", result.Passages)
	}
}

func TestRetrieve_DenseOnlyMatchIsRetrieved(t *testing.T) {
	passages := []model.Passage{
		{ID: "vec-a", Text: "Alpha beta gamma.", Embedding: []float32{1, 0}},
		{ID: "vec-b", Text: "Delta epsilon zeta.", Embedding: []float32{0, 1}},
	}
	stub := &stubEmbedding{vector: []float32{1, 0}}
	embedder := NewCachedEmbedder(stub, nil, "test-model", time.Minute)
	expander := NewExpander(nil, nil, 1, 0, nil)
	retriever := NewRetriever(kb.NewSnapshot(passages), expander, embedder, testRetrievalConfig(), nil)

	result, err := retriever.Retrieve(context.Background(), "orthogonal probe", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Degraded {
		t.Error("expected no degradation with a working embedder")
	}
	if len(result.Passages) != 1 || result.Passages[0].Passage.ID != "vec-a" {
		t.Fatalf("expected vec-a only, got %+v", result.Passages)
	}

	// Coarse score 0.5 (dense 1.0 at weight 0.5, no lexical overlap) blended
	// against a zero re-rank score
	if got := result.Passages[0].Relevance; !almostEqual(got, 0.2) {
		t.Errorf("expected relevance 0.2, got %v", got)
	}
}

func TestRetrieve_CancelledContext(t *testing.T) {
	stub := &stubEmbedding{err: errors.New("canceled")}
	embedder := NewCachedEmbedder(stub, nil, "test-model", time.Minute)
	expander := NewExpander(nil, nil, 1, 0, nil)
	retriever := NewRetriever(kb.NewSnapshot(testPassages()), expander, embedder, testRetrievalConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := retriever.Retrieve(ctx, "signature blocks", 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result != nil {
		t.Errorf("expected no partial result, got %+v", result)
	}
}

func TestRetrieve_OrdersByScoreAndTruncates(t *testing.T) {
	passages := []model.Passage{
		{ID: "cur-detailed", Text: "Share capital must be stated in United States dollars currency."},
		{ID: "cur-brief", Text: "Share capital statements."},
		{ID: "cur-rules", Text: "Currency conversion rules."},
		{ID: "emp-misc", Text: "Employment regulations overview."},
	}
	retriever := lexicalRetriever(passages)

	result, err := retriever.Retrieve(context.Background(), "share capital currency", 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Passages) != 2 {
		t.Fatalf("expected topK to cap results at 2, got %d", len(result.Passages))
	}
	if result.Passages[0].Passage.ID != "cur-detailed" || result.Passages[1].Passage.ID != "cur-brief" {
		t.Errorf("unexpected order: %s, %s", result.Passages[0].Passage.ID, result.Passages[1].Passage.ID)
	}
	for i := 1; i < len(result.Passages); i++ {
		if result.Passages[i].Relevance > result.Passages[i-1].Relevance {
			t.Errorf("relevance increased at position %d", i)
		}
	}
}

func TestRetrieve_TieBreaksByPassageID(t *testing.T) {
	passages := []model.Passage{
		{ID: "dup-b", Text: "Registered office address requirements."},
		{ID: "dup-a", Text: "Registered office address requirements."},
	}
	retriever := lexicalRetriever(passages)

	result, err := retriever.Retrieve(context.Background(), "registered office", 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(result.Passages))
	}
	if result.Passages[0].Passage.ID != "dup-a" || result.Passages[1].Passage.ID != "dup-b" {
		t.Errorf("expected id ascending on tied scores, got %s, %s",
			result.Passages[0].Passage.ID, result.Passages[1].Passage.ID)
	}
	if !almostEqual(result.Passages[0].Relevance, result.Passages[1].Relevance) {
		t.Errorf("expected tied relevance, got %v and %v",
			result.Passages[0].Relevance, result.Passages[1].Relevance)
	}
}

func TestRetrieve_EmptyInputs(t *testing.T) {
	retriever := lexicalRetriever(testPassages())

	result, err := retriever.Retrieve(context.Background(), "   ", 5)
	if err != nil {
		t.Fatalf("expected no error for a blank query, got %v", err)
	}
	if len(result.Passages) != 0 || result.Confidence != 0 {
		t.Errorf("expected an empty result for a blank query, got %+v", result)
	}

	empty := lexicalRetriever(nil)
	result, err = empty.Retrieve(context.Background(), "share capital", 5)
	if err != nil {
		t.Fatalf("expected no error for an empty store, got %v", err)
	}
	if len(result.Passages) != 0 {
		t.Errorf("expected no passages from an empty store, got %d", len(result.Passages))
	}
}

func TestRetrieve_DegradedLowersConfidence(t *testing.T) {
	passages := []model.Passage{
		{ID: "off-001", Text: "Registered office address requirements.", Embedding: []float32{1, 0}},
	}
	expander := NewExpander(nil, nil, 1, 0, nil)
	cfg := testRetrievalConfig()

	healthy := NewRetriever(kb.NewSnapshot(passages), expander,
		NewCachedEmbedder(&stubEmbedding{vector: []float32{1, 0}}, nil, "test-model", time.Minute), cfg, nil)
	degraded := NewRetriever(kb.NewSnapshot(passages), expander, nil, cfg, nil)

	got, err := healthy.Retrieve(context.Background(), "registered office", 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	alt, err := degraded.Retrieve(context.Background(), "registered office", 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Degraded || !alt.Degraded {
		t.Fatalf("expected degraded flags false/true, got %v/%v", got.Degraded, alt.Degraded)
	}
	if alt.Confidence >= got.Confidence {
		t.Errorf("expected degraded confidence below healthy, got %v >= %v", alt.Confidence, got.Confidence)
	}
}
