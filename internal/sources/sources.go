// Package sources provides the lead sources selectable by configuration key.
package sources

import (
	"slices"
	"strings"

	"github.com/papacasper/leadflow-ai/internal/pipeline"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// Source kinds.
const (
	KindMock      = "mock"
	KindSynthetic = "synthetic"
	KindXLSX      = "xlsx"
	KindNotion    = "notion"
	KindSQLite    = "sqlite"
)

// Config holds per-backend source settings
type Config struct {
	XLSX      XLSXConfig      `yaml:"xlsx"`
	Notion    NotionConfig    `yaml:"notion"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Synthetic SyntheticConfig `yaml:"synthetic"`
}

// DefaultConfig returns the default source configuration
func DefaultConfig() Config {
	return Config{
		XLSX: XLSXConfig{Path: "input/leads.xlsx"},
		Notion: NotionConfig{
			TokenEnvVar:      "NOTION_TOKEN",
			DatabaseIDEnvVar: "NOTION_SOURCE_DATABASE_ID",
		},
		SQLite:    SQLiteConfig{Path: "output/leads.db"},
		Synthetic: SyntheticConfig{Count: 25, Seed: 42, DuplicateRate: 0.2},
	}
}

// Available returns the known source kinds, sorted.
func Available() []string {
	kinds := []string{KindMock, KindSynthetic, KindXLSX, KindNotion, KindSQLite}
	slices.Sort(kinds)
	return kinds
}

// New constructs the source registered under kind.
func New(kind string, cfg Config) (pipeline.Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindMock:
		return NewMock(), nil
	case KindSynthetic:
		return NewSynthetic(cfg.Synthetic), nil
	case KindXLSX:
		return NewXLSX(cfg.XLSX), nil
	case KindNotion:
		return NewNotion(cfg.Notion), nil
	case KindSQLite:
		return NewLedger(cfg.SQLite), nil
	default:
		return nil, &types.UnknownBackendError{Role: "source", Key: kind, Available: Available()}
	}
}

// leadFromFields builds a new lead from loosely typed row fields.
func leadFromFields(source string, fields map[string]string, raw map[string]any) *types.Lead {
	l := types.NewLead(source)
	l.Name = fields["name"]
	l.Email = fields["email"]
	l.Phone = fields["phone"]
	l.Company = fields["company"]
	l.Notes = fields["notes"]
	if raw != nil {
		l.RawData = raw
	}
	return l
}
