// Package enrichment attaches a summary and topic tags to leads.
//
// Two enrichers exist. HeuristicEnricher scans notes for a fixed ordered set
// of keywords. AIEnricher sends leads to a completion model in batches and
// applies the JSON reply positionally. A batch that cannot be enriched is
// returned untouched, so callers detect partial failure by inspecting each
// lead's status.
package enrichment

import (
	"context"
	"fmt"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// Enricher mutates leads in place and returns the same slice.
// Implementations preserve length, order, and identity.
type Enricher interface {
	Enrich(ctx context.Context, leads []*types.Lead) []*types.Lead
}

// New returns the enricher selected by cfg.MockMode. completer is ignored in
// mock mode and may be nil otherwise, in which case every batch is skipped.
func New(cfg Config, completer ai.Completer) (Enricher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.MockMode {
		return NewHeuristicEnricher(cfg.ValidTags), nil
	}
	return NewAIEnricher(completer, cfg, ai.DefaultRetryConfig()), nil
}

// tagSet is an allow-list of tags. A nil or empty set allows everything.
type tagSet map[string]struct{}

func newTagSet(tags []string) tagSet {
	if len(tags) == 0 {
		return nil
	}
	s := make(tagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// filter keeps the tags present in s, preserving order. An empty s keeps all.
func (s tagSet) filter(tags []string) []string {
	if len(s) == 0 {
		return tags
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := s[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
