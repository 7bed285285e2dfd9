package deduplication

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/logging"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// Deduplicator partitions incoming leads into unique and duplicate sets.
//
// A Deduplicator keeps no state between calls, but a single call mutates the
// leads it is given and must not run concurrently with another call over the
// same leads.
type Deduplicator struct {
	config  Config
	matcher Matcher
}

// New creates a Deduplicator whose matcher follows cfg.MockMode: heuristic in
// mock mode, model-backed otherwise. completer is ignored in mock mode.
func New(cfg Config, completer ai.Completer) (*Deduplicator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	var m Matcher
	if cfg.MockMode {
		m = HeuristicMatcher{Threshold: cfg.FuzzyThreshold}
	} else {
		m = NewAIMatcher(completer, cfg, ai.DefaultRetryConfig())
	}
	return &Deduplicator{config: cfg, matcher: m}, nil
}

// NewWithMatcher creates a Deduplicator with an explicit matcher.
func NewWithMatcher(cfg Config, m Matcher) (*Deduplicator, error) {
	if m == nil {
		return nil, fmt.Errorf("matcher cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Deduplicator{config: cfg, matcher: m}, nil
}

// Config returns the deduplicator's configuration.
func (d *Deduplicator) Config() Config {
	return d.config
}

// Result contains the outcome of a deduplication pass
type Result struct {
	// Unique leads in input order
	Unique []*types.Lead

	// Duplicates leads in input order; each has status duplicate
	Duplicates []*types.Lead

	// Stats for the pass
	Stats Stats
}

// Stats tracks deduplication performance metrics
type Stats struct {
	Incoming        int           // Leads processed
	Existing        int           // Known leads compared against
	Unique          int           // Leads accepted
	ExactDuplicates int           // Caught by the dedup key
	FuzzyDuplicates int           // Caught by the matcher
	PrefilterPasses int           // Candidate pairs sharing a name token
	MatcherCalls    int           // Times the matcher was consulted
	Duration        time.Duration // Wall time of the pass
}

// Duplicates returns the total duplicate count.
func (s Stats) Duplicates() int {
	return s.ExactDuplicates + s.FuzzyDuplicates
}

// Validate checks that the result is internally consistent
func (r *Result) Validate() error {
	if r.Stats.Unique != len(r.Unique) {
		return fmt.Errorf("unique count mismatch: stats=%d, actual=%d",
			r.Stats.Unique, len(r.Unique))
	}
	if r.Stats.Duplicates() != len(r.Duplicates) {
		return fmt.Errorf("duplicate count mismatch: stats=%d, actual=%d",
			r.Stats.Duplicates(), len(r.Duplicates))
	}
	if r.Stats.Incoming != len(r.Unique)+len(r.Duplicates) {
		return fmt.Errorf("incoming (%d) != unique (%d) + duplicates (%d)",
			r.Stats.Incoming, len(r.Unique), len(r.Duplicates))
	}
	if r.Stats.MatcherCalls != r.Stats.PrefilterPasses {
		return fmt.Errorf("matcher calls (%d) != prefilter passes (%d)",
			r.Stats.MatcherCalls, r.Stats.PrefilterPasses)
	}
	return nil
}

// Deduplicate runs the exact stage then the fuzzy stage for each incoming
// lead in order. existing may be nil. Leads found to be duplicates are
// transitioned to status duplicate in place.
func (d *Deduplicator) Deduplicate(ctx context.Context, incoming, existing []*types.Lead) *Result {
	start := time.Now()
	result := &Result{
		Unique:     make([]*types.Lead, 0, len(incoming)),
		Duplicates: []*types.Lead{},
	}
	result.Stats.Incoming = len(incoming)
	result.Stats.Existing = len(existing)

	knownKeys := make(map[string]struct{}, len(existing)+len(incoming))
	for _, lead := range existing {
		if key, ok := lead.DedupKey(); ok {
			knownKeys[key] = struct{}{}
		}
	}

	for _, lead := range incoming {
		key, hasKey := lead.DedupKey()
		if hasKey {
			if _, seen := knownKeys[key]; seen {
				d.markDuplicate(lead)
				result.Duplicates = append(result.Duplicates, lead)
				result.Stats.ExactDuplicates++
				logging.Debugf("[DEDUP] Exact duplicate: %s (%s)", lead.Name, lead.Email)
				continue
			}
		}

		if match := d.fuzzyMatch(ctx, lead, existing, result); match != nil {
			d.markDuplicate(lead)
			result.Duplicates = append(result.Duplicates, lead)
			result.Stats.FuzzyDuplicates++
			logging.Debugf("[DEDUP] Fuzzy duplicate: %s ~ %s", lead.Name, match.Name)
			continue
		}

		if hasKey {
			knownKeys[key] = struct{}{}
		}
		result.Unique = append(result.Unique, lead)
	}

	result.Stats.Unique = len(result.Unique)
	result.Stats.Duration = time.Since(start)

	log.Printf("[DEDUP] %d incoming → %d unique, %d duplicates (exact=%d, fuzzy=%d, matcher calls=%d) in %v",
		result.Stats.Incoming, result.Stats.Unique, result.Stats.Duplicates(),
		result.Stats.ExactDuplicates, result.Stats.FuzzyDuplicates,
		result.Stats.MatcherCalls, result.Stats.Duration)

	return result
}

// fuzzyMatch scans existing then the unique leads accepted so far and
// returns the first candidate the matcher accepts, or nil.
func (d *Deduplicator) fuzzyMatch(ctx context.Context, lead *types.Lead, existing []*types.Lead, result *Result) *types.Lead {
	for _, pool := range [][]*types.Lead{existing, result.Unique} {
		for _, candidate := range pool {
			if !sharesNameToken(lead, candidate) {
				continue
			}
			result.Stats.PrefilterPasses++
			result.Stats.MatcherCalls++
			if d.matcher.Match(ctx, lead, candidate) {
				return candidate
			}
		}
	}
	return nil
}

func (d *Deduplicator) markDuplicate(lead *types.Lead) {
	if err := lead.MarkDuplicate(); err != nil {
		log.Printf("[DEDUP] warning: %s: %v", lead.Name, err)
	}
}
