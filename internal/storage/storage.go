// Package storage defines the lead ledger: a durable record of every lead
// written by a pipeline run, used to seed deduplication on later runs.
package storage

import (
	"context"

	"github.com/papacasper/leadflow-ai/internal/pipeline"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// Record is a stored lead plus ledger metadata.
type Record struct {
	ID        string // ULID
	RunID     string
	CreatedAt string
	Lead      *types.Lead
}

// LeadStore persists leads and run summaries.
type LeadStore interface {
	// InsertLeads stores leads under runID and returns the number inserted.
	InsertLeads(ctx context.Context, runID string, leads []*types.Lead) (int, error)

	// Leads returns every stored lead in insertion order.
	Leads(ctx context.Context) ([]*types.Lead, error)

	// Records returns stored leads with their ledger metadata, newest first,
	// at most limit (0 = all).
	Records(ctx context.Context, limit int) ([]Record, error)

	// RecordRun stores the stats of a finished run.
	RecordRun(ctx context.Context, stats pipeline.Stats) error

	// Runs returns recorded run stats, newest first, at most limit (0 = all).
	Runs(ctx context.Context, limit int) ([]pipeline.Stats, error)

	Close() error
}
