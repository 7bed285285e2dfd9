package sources

import (
	"context"
	"fmt"

	"github.com/papacasper/leadflow-ai/internal/storage/sqlite"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// SQLiteConfig locates the lead ledger
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Ledger replays leads previously written to the SQLite ledger. Replayed
// leads come back with status new so they can be reprocessed.
type Ledger struct {
	cfg SQLiteConfig
}

// NewLedger creates a ledger source.
func NewLedger(cfg SQLiteConfig) *Ledger {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().SQLite.Path
	}
	return &Ledger{cfg: cfg}
}

// Name implements pipeline.Source.
func (*Ledger) Name() string { return KindSQLite }

// Fetch loads every ledger lead, reset to a fresh state.
func (s *Ledger) Fetch(ctx context.Context) ([]*types.Lead, error) {
	stored, err := LoadLedger(ctx, s.cfg.Path)
	if err != nil {
		return nil, err
	}
	leads := make([]*types.Lead, len(stored))
	for i, old := range stored {
		l := types.NewLead(KindSQLite)
		l.Name, l.Email, l.Phone, l.Company, l.Notes = old.Name, old.Email, old.Phone, old.Company, old.Notes
		l.RawData = old.RawData
		if l.RawData == nil {
			l.RawData = map[string]any{}
		}
		l.RawData["original_source"] = old.Source
		leads[i] = l
	}
	return leads, nil
}

// LoadLedger returns every lead stored at path, as stored. It is also used
// to seed deduplication with previously written leads.
func LoadLedger(ctx context.Context, path string) ([]*types.Lead, error) {
	store, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer store.Close()
	return store.Leads(ctx)
}
