// Package pipeline runs leads through fetch, normalize, dedup, enrich, write
// and notify.
//
// The stage capabilities are declared here as small interfaces so that the
// sources, destinations and notify packages depend on pipeline rather than
// the other way around.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/papacasper/leadflow-ai/internal/deduplication"
	"github.com/papacasper/leadflow-ai/internal/normalize"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// Source produces raw leads.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]*types.Lead, error)
}

// Destination persists enriched leads and reports how many were written.
type Destination interface {
	Name() string
	Write(ctx context.Context, leads []*types.Lead) (int, error)
}

// Notifier announces a finished run. It reports whether delivery succeeded.
type Notifier interface {
	Notify(ctx context.Context, leads []*types.Lead, stats Stats) bool
}

// Deduplicator splits incoming leads into unique and duplicate sets.
type Deduplicator interface {
	Deduplicate(ctx context.Context, incoming, existing []*types.Lead) *deduplication.Result
}

// Enricher attaches summaries and tags.
type Enricher interface {
	Enrich(ctx context.Context, leads []*types.Lead) []*types.Lead
}

type runIDKey struct{}

// WithRunID returns a context carrying the run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID set by Run, or "" outside a run.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// Options tune a pipeline run.
type Options struct {
	// DryRun skips the write and notify steps.
	DryRun bool
}

// Pipeline wires the stages together.
type Pipeline struct {
	source       Source
	deduplicator Deduplicator
	enricher     Enricher
	destination  Destination
	notifier     Notifier
	opts         Options

	now func() time.Time
}

// New creates a pipeline. destination and notifier may be nil only for
// dry runs.
func New(source Source, dedup Deduplicator, enricher Enricher, dest Destination, notifier Notifier, opts Options) (*Pipeline, error) {
	if source == nil {
		return nil, errors.New("source is required")
	}
	if dedup == nil {
		return nil, errors.New("deduplicator is required")
	}
	if enricher == nil {
		return nil, errors.New("enricher is required")
	}
	if !opts.DryRun && (dest == nil || notifier == nil) {
		return nil, errors.New("destination and notifier are required unless dry run")
	}
	return &Pipeline{
		source:       source,
		deduplicator: dedup,
		enricher:     enricher,
		destination:  dest,
		notifier:     notifier,
		opts:         opts,
		now:          time.Now,
	}, nil
}

// Run executes the six steps against the given known leads (may be nil).
// Source and destination failures are logged, not returned: an empty fetch
// ends the run early and a failed write counts zero leads written.
func (p *Pipeline) Run(ctx context.Context, existing []*types.Lead) Stats {
	stats := Stats{RunID: uuid.New().String()}
	ctx = WithRunID(ctx, stats.RunID)
	start := p.now()
	finish := func() Stats {
		stats.Duration = p.now().Sub(start)
		return stats
	}

	log.Printf("[PIPELINE] run %s: Step 1/6: Fetching leads from %s", stats.RunID, p.source.Name())
	raw, err := p.source.Fetch(ctx)
	if err != nil {
		log.Printf("[PIPELINE] Fetch from %s failed: %v", p.source.Name(), err)
		raw = nil
	}
	stats.Fetched = len(raw)
	log.Printf("[PIPELINE] Fetched %d leads", stats.Fetched)
	if len(raw) == 0 {
		log.Printf("[PIPELINE] No leads fetched, pipeline complete")
		return finish()
	}

	log.Printf("[PIPELINE] Step 2/6: Normalizing leads")
	normalized := normalize.Leads(raw)
	stats.Normalized = len(normalized)

	log.Printf("[PIPELINE] Step 3/6: Deduplicating leads")
	result := p.deduplicator.Deduplicate(ctx, normalized, existing)
	stats.Unique = len(result.Unique)
	stats.Duplicates = len(result.Duplicates)
	log.Printf("[PIPELINE] Dedup: %d unique, %d duplicates", stats.Unique, stats.Duplicates)
	if len(result.Unique) == 0 {
		log.Printf("[PIPELINE] All leads were duplicates, pipeline complete")
		return finish()
	}

	log.Printf("[PIPELINE] Step 4/6: Enriching leads")
	enriched := p.enricher.Enrich(ctx, result.Unique)
	stats.Enriched = types.CountByStatus(enriched, types.StatusEnriched)
	log.Printf("[PIPELINE] Enriched %d leads", stats.Enriched)
	if stats.Enriched < len(enriched) {
		log.Printf("[PIPELINE] warning: %d leads left un-enriched", len(enriched)-stats.Enriched)
	}

	if p.opts.DryRun {
		log.Printf("[PIPELINE] Step 5/6: SKIPPED (dry run)")
		log.Printf("[PIPELINE] Step 6/6: SKIPPED (dry run)")
		return finish()
	}

	log.Printf("[PIPELINE] Step 5/6: Writing to %s", p.destination.Name())
	written, err := p.destination.Write(ctx, enriched)
	if err != nil {
		log.Printf("[PIPELINE] Write to %s failed: %v", p.destination.Name(), err)
	}
	stats.Written = written
	log.Printf("[PIPELINE] Wrote %d leads", stats.Written)

	log.Printf("[PIPELINE] Step 6/6: Sending notifications")
	stats.Duration = p.now().Sub(start)
	stats.Notified = p.notifier.Notify(ctx, enriched, stats)

	stats = finish()
	log.Printf("[PIPELINE] Pipeline complete in %.2fs", stats.Duration.Seconds())
	return stats
}
