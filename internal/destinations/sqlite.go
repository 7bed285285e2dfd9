package destinations

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/papacasper/leadflow-ai/internal/pipeline"
	"github.com/papacasper/leadflow-ai/internal/storage/sqlite"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// SQLiteConfig locates the lead ledger
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SQLite appends leads to the ledger database, tagged with the run ID of
// the pipeline run that produced them.
type SQLite struct {
	cfg SQLiteConfig
	now func() time.Time
}

// NewSQLite creates a ledger destination.
func NewSQLite(cfg SQLiteConfig) *SQLite {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().SQLite.Path
	}
	return &SQLite{cfg: cfg, now: time.Now}
}

// Name implements pipeline.Destination.
func (*SQLite) Name() string { return KindSQLite }

// Write implements pipeline.Destination.
func (d *SQLite) Write(ctx context.Context, leads []*types.Lead) (int, error) {
	store, err := sqlite.New(d.cfg.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer store.Close()

	stampAll(leads, d.now)
	n, err := store.InsertLeads(ctx, pipeline.RunIDFromContext(ctx), leads)
	if err != nil {
		return 0, err
	}
	log.Printf("[DEST] Inserted %d leads into %s", n, d.cfg.Path)
	return n, nil
}
