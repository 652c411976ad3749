// Package kb manages the regulatory corpus: a SQLite-backed passage store,
// built-in ADGM seed content, and immutable snapshots the retrieval pipeline
// reads. Retrieval never touches the database directly; it works on a
// snapshot so results stay deterministic for a given corpus state.
package kb

import (
	"sort"

	"github.com/ppiankov/clausula/internal/model"
)

// Store is the read surface retrieval operates on
type Store interface {
	// All returns every passage in stable id order
	All() []model.Passage
	// Lookup fetches one passage by id
	Lookup(id string) (model.Passage, bool)
	// Count reports how many passages the store holds
	Count() int
}

// Snapshot is an in-memory Store. The passage slice is ordered by id so
// iteration order never depends on map traversal.
type Snapshot struct {
	passages []model.Passage
	byID     map[string]model.Passage
}

// NewSnapshot builds a snapshot from the given passages. Input order does not
// matter; passages are re-sorted by id.
func NewSnapshot(passages []model.Passage) *Snapshot {
	s := &Snapshot{
		passages: make([]model.Passage, len(passages)),
		byID:     make(map[string]model.Passage, len(passages)),
	}
	copy(s.passages, passages)
	sort.Slice(s.passages, func(i, j int) bool { return s.passages[i].ID < s.passages[j].ID })
	for _, p := range s.passages {
		s.byID[p.ID] = p
	}
	return s
}

// All returns the passages in id order. Callers must not mutate the slice.
func (s *Snapshot) All() []model.Passage {
	return s.passages
}

// Lookup fetches one passage by id
func (s *Snapshot) Lookup(id string) (model.Passage, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Count reports the number of passages
func (s *Snapshot) Count() int {
	return len(s.passages)
}
