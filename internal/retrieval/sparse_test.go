package retrieval

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("The Company SHALL maintain a registered office in ADGM.")
	want := []string{"company", "shall", "maintain", "registered", "office", "adgm"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, tok := range want {
		if tokens[i] != tok {
			t.Errorf("token %d: expected %q, got %q", i, tok, tokens[i])
		}
	}
}

func TestTokenize_KeepsModalVerbs(t *testing.T) {
	tokens := tokenSet(tokenize("Payments must be made and shall not be withheld."))
	for _, modal := range []string{"must", "shall", "not"} {
		if _, ok := tokens[modal]; !ok {
			t.Errorf("expected modal verb %q to survive tokenization", modal)
		}
	}
	if _, ok := tokens["be"]; ok {
		t.Error("expected stopword 'be' to be dropped")
	}
}

func TestJaccard(t *testing.T) {
	a := tokenSet([]string{"adgm", "courts", "jurisdiction"})
	b := tokenSet([]string{"adgm", "courts", "jurisdiction"})
	if got := jaccard(a, b); !almostEqual(got, 1.0) {
		t.Errorf("identical sets: expected 1.0, got %v", got)
	}

	c := tokenSet([]string{"employment", "regulations"})
	if got := jaccard(a, c); got != 0 {
		t.Errorf("disjoint sets: expected 0, got %v", got)
	}

	d := tokenSet([]string{"adgm", "employment"})
	if got := jaccard(a, d); !almostEqual(got, 0.25) {
		t.Errorf("partial overlap: expected 0.25, got %v", got)
	}

	if got := jaccard(a, nil); got != 0 {
		t.Errorf("empty set: expected 0, got %v", got)
	}
}

func TestCoverage(t *testing.T) {
	passage := tokenSet([]string{"share", "capital", "currency", "usd"})
	if got := coverage([]string{"share", "capital"}, passage); !almostEqual(got, 1.0) {
		t.Errorf("full coverage: expected 1.0, got %v", got)
	}
	if got := coverage([]string{"share", "transfer"}, passage); !almostEqual(got, 0.5) {
		t.Errorf("half coverage: expected 0.5, got %v", got)
	}
	if got := coverage(nil, passage); got != 0 {
		t.Errorf("empty query: expected 0, got %v", got)
	}
}

func TestBigrams(t *testing.T) {
	set := bigrams([]string{"adgm", "courts", "jurisdiction"})
	for _, b := range []string{"adgm courts", "courts jurisdiction"} {
		if _, ok := set[b]; !ok {
			t.Errorf("expected bigram %q", b)
		}
	}
	if len(set) != 2 {
		t.Errorf("expected 2 bigrams, got %d", len(set))
	}
	if got := bigrams([]string{"single"}); got != nil {
		t.Errorf("single token: expected nil, got %v", got)
	}
}
