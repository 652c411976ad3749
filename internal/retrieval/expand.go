package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/clausula/internal/backend"
	"github.com/ppiankov/clausula/internal/cache"
	"github.com/ppiankov/clausula/internal/logging"
)

const expandSystem = "You are a legal search assistant specializing in ADGM regulatory research."

// synonymTable drives the deterministic expansion fallback. Iterated in
// declaration order so expansion output is stable.
var synonymTable = []struct {
	term       string
	alternates []string
}{
	{"jurisdiction", []string{"governing law", "ADGM Courts"}},
	{"governing law", []string{"jurisdiction clause", "applicable law"}},
	{"signature", []string{"signatory", "execution block"}},
	{"share capital", []string{"shareholding", "issued shares"}},
	{"director", []string{"board of directors", "officers"}},
	{"employment", []string{"employee entitlements", "contract of employment"}},
	{"registered office", []string{"registered address", "office address"}},
	{"resolution", []string{"board approval", "resolved that"}},
	{"language", []string{"binding terms", "mandatory wording"}},
	{"section", []string{"clause", "provision"}},
}

// Expander produces alternate phrasings of a retrieval query. The inference
// backend generates variants when configured; the synonym table serves
// otherwise, and also when the backend call fails.
type Expander struct {
	provider backend.InferenceProvider
	cache    cache.Cache
	max      int
	ttl      time.Duration
	log      logging.Logger
}

// NewExpander builds an expander. provider and c may be nil; max caps the
// total query count including the original.
func NewExpander(provider backend.InferenceProvider, c cache.Cache, max int, ttl time.Duration, log logging.Logger) *Expander {
	if max < 1 {
		max = 1
	}
	return &Expander{provider: provider, cache: c, max: max, ttl: ttl, log: logging.OrNop(log)}
}

// Expand returns up to max queries, the original always first, plus a flag
// reporting whether a configured backend failed and the fallback was used
func (e *Expander) Expand(ctx context.Context, query string) ([]string, bool) {
	queries := []string{query}
	if e.max <= 1 {
		return queries, false
	}

	degraded := false
	variants := e.fromBackend(ctx, query)
	if e.provider != nil && variants == nil {
		degraded = true
	}
	if variants == nil {
		variants = synonymVariants(query, e.max-1)
	}

	seen := map[string]struct{}{strings.ToLower(query): {}}
	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		queries = append(queries, v)
		if len(queries) >= e.max {
			break
		}
	}
	return queries, degraded
}

// fromBackend asks the inference backend for related search terms. Returns
// nil when no backend is configured or the call fails.
func (e *Expander) fromBackend(ctx context.Context, query string) []string {
	if e.provider == nil {
		return nil
	}

	key := cache.Key("expand", query, strconv.Itoa(e.max))
	if e.cache != nil {
		if raw, ok := e.cache.Get(key); ok {
			var cached []string
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached
			}
		}
	}

	prompt := fmt.Sprintf(`Given this legal query about ADGM compliance, provide %d related search terms or synonyms.
Query: %s

Return only the expanded terms separated by commas, nothing else.`, e.max-1, query)

	resp, err := e.provider.Complete(ctx, backend.CompletionRequest{
		System:    expandSystem,
		Prompt:    prompt,
		MaxTokens: 200,
	})
	if err != nil {
		e.log.Warn("query expansion failed, using synonym fallback", "error", err)
		return nil
	}

	variants := parseExpansionTerms(query, resp.Text, e.max-1)
	if len(variants) == 0 {
		return nil
	}

	if e.cache != nil {
		if raw, err := json.Marshal(variants); err == nil {
			_ = e.cache.Set(key, raw, e.ttl)
		}
	}
	return variants
}

// parseExpansionTerms splits a comma- or newline-separated term list and
// appends each term to the original query
func parseExpansionTerms(query, text string, limit int) []string {
	var variants []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '\n' || r == ';' }) {
		term := strings.TrimSpace(part)
		term = strings.Trim(term, `"'.-`)
		if term == "" || len(term) > 80 {
			continue
		}
		variants = append(variants, query+" "+term)
		if len(variants) >= limit {
			break
		}
	}
	return variants
}

// synonymVariants builds deterministic expansions from the synonym table
func synonymVariants(query string, limit int) []string {
	q := strings.ToLower(query)
	var out []string
	for _, entry := range synonymTable {
		if !strings.Contains(q, entry.term) {
			continue
		}
		for _, alt := range entry.alternates {
			out = append(out, query+" "+alt)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}
