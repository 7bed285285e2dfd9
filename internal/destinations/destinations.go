// Package destinations provides the sinks enriched leads are written to.
// Every destination stamps ingested_at on each lead just before handing
// it off.
package destinations

import (
	"slices"
	"strings"
	"time"

	"github.com/papacasper/leadflow-ai/internal/pipeline"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// Destination kinds.
const (
	KindMock   = "mock"
	KindXLSX   = "xlsx"
	KindNotion = "notion"
	KindSQLite = "sqlite"
)

// Config holds per-backend destination settings
type Config struct {
	Mock   JSONConfig   `yaml:"mock"`
	XLSX   XLSXConfig   `yaml:"xlsx"`
	Notion NotionConfig `yaml:"notion"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// DefaultConfig returns the default destination configuration
func DefaultConfig() Config {
	return Config{
		Mock: JSONConfig{Path: "output/leads.json"},
		XLSX: XLSXConfig{Path: "output/master_leads.xlsx", Sheet: "Leads"},
		Notion: NotionConfig{
			TokenEnvVar:      "NOTION_TOKEN",
			DatabaseIDEnvVar: "NOTION_DEST_DATABASE_ID",
		},
		SQLite: SQLiteConfig{Path: "output/leads.db"},
	}
}

// Available returns the known destination kinds, sorted.
func Available() []string {
	kinds := []string{KindMock, KindXLSX, KindNotion, KindSQLite}
	slices.Sort(kinds)
	return kinds
}

// New constructs the destination registered under kind.
func New(kind string, cfg Config) (pipeline.Destination, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindMock:
		return NewJSON(cfg.Mock), nil
	case KindXLSX:
		return NewXLSX(cfg.XLSX), nil
	case KindNotion:
		return NewNotion(cfg.Notion), nil
	case KindSQLite:
		return NewSQLite(cfg.SQLite), nil
	default:
		return nil, &types.UnknownBackendError{Role: "destination", Key: kind, Available: Available()}
	}
}

func stampAll(leads []*types.Lead, now func() time.Time) {
	for _, l := range leads {
		l.StampIngested(now())
	}
}
