package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/clausula/internal/backend"
	"github.com/ppiankov/clausula/internal/model"
)

const correctSystem = "You are an ADGM legal expert. Correct legal text to comply with ADGM regulations and return only the corrected text."

// SuggestCorrection asks the inference backend for replacement text that fixes
// the given findings, grounded in the passages they cite. Advisory only; the
// result never affects scoring.
func (s *Synthesizer) SuggestCorrection(ctx context.Context, text string, issues []model.Issue) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("%w: no inference backend configured", model.ErrConfiguration)
	}
	if strings.TrimSpace(text) == "" || len(issues) == 0 {
		return "", fmt.Errorf("%w: nothing to correct", model.ErrInputDocument)
	}

	var found strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&found, "- %s\n", issue.Description)
	}

	var grounding strings.Builder
	for _, id := range citedIDs(issues) {
		p, ok := s.store.Lookup(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&grounding, "Source: %s\n%s\n\n", p.SourceTitle, p.Text)
	}

	prompt := fmt.Sprintf(`Correct the following text to comply with ADGM regulations.

Original Text:
%s

Issues Found:
%s
Relevant ADGM Regulations:
%s
Provide the corrected text that:
1. Complies with all ADGM regulations
2. Uses proper legal language (binding terms)
3. References ADGM jurisdiction correctly
4. Includes all required elements

Return only the corrected text:`, text, found.String(), grounding.String())

	resp, err := s.completeWithRetry(ctx, backend.CompletionRequest{
		System:    correctSystem,
		Prompt:    prompt,
		MaxTokens: 1000,
	})
	if err != nil {
		return "", fmt.Errorf("suggest correction: %w", err)
	}

	corrected := strings.TrimSpace(resp.Text)
	corrected = strings.TrimPrefix(corrected, "```")
	corrected = strings.TrimSuffix(corrected, "```")
	if corrected == "" {
		return "", fmt.Errorf("%w: empty correction", model.ErrMalformedResponse)
	}
	return strings.TrimSpace(corrected), nil
}

// citedIDs returns the distinct passage ids the issues cite, in first-seen order
func citedIDs(issues []model.Issue) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, issue := range issues {
		for _, id := range issue.CitedPassageIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
