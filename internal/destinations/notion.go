package destinations

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/papacasper/leadflow-ai/internal/notion"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// NotionConfig configures the Notion database destination
type NotionConfig struct {
	TokenEnvVar      string `yaml:"token_env_var"`
	DatabaseIDEnvVar string `yaml:"database_id_env_var"`
	BaseURL          string `yaml:"base_url"`
}

// Notion creates one database page per lead. A lead that fails to write is
// logged and skipped; the rest are still attempted.
type Notion struct {
	cfg NotionConfig
	now func() time.Time
}

// NewNotion creates a Notion destination.
func NewNotion(cfg NotionConfig) *Notion {
	def := DefaultConfig().Notion
	if cfg.TokenEnvVar == "" {
		cfg.TokenEnvVar = def.TokenEnvVar
	}
	if cfg.DatabaseIDEnvVar == "" {
		cfg.DatabaseIDEnvVar = def.DatabaseIDEnvVar
	}
	return &Notion{cfg: cfg, now: time.Now}
}

// Name implements pipeline.Destination.
func (*Notion) Name() string { return KindNotion }

// Write implements pipeline.Destination.
func (d *Notion) Write(ctx context.Context, leads []*types.Lead) (int, error) {
	token := os.Getenv(d.cfg.TokenEnvVar)
	databaseID := os.Getenv(d.cfg.DatabaseIDEnvVar)
	if token == "" || databaseID == "" {
		return 0, fmt.Errorf("%w (%s / %s)", notion.ErrMissingCredentials, d.cfg.TokenEnvVar, d.cfg.DatabaseIDEnvVar)
	}
	client, err := notion.NewClient(notion.Config{Token: token, BaseURL: d.cfg.BaseURL})
	if err != nil {
		return 0, err
	}

	written := 0
	for _, l := range leads {
		l.StampIngested(d.now())
		if _, err := client.CreatePage(ctx, databaseID, leadProperties(l)); err != nil {
			if ctx.Err() != nil {
				return written, ctx.Err()
			}
			log.Printf("[DEST] Failed to write lead %q to Notion: %v", l.Name, err)
			continue
		}
		written++
	}
	log.Printf("[DEST] Wrote %d/%d leads to Notion", written, len(leads))
	return written, nil
}

// leadProperties maps a lead onto database properties; empty fields are
// left out.
func leadProperties(l *types.Lead) map[string]notion.Property {
	props := map[string]notion.Property{}
	set := func(key, value string, build func(string) notion.Property) {
		if value != "" {
			props[key] = build(value)
		}
	}
	set("Name", l.Name, notion.TitleProperty)
	set("Email", l.Email, notion.EmailProperty)
	set("Phone", l.Phone, notion.PhoneProperty)
	set("Company", l.Company, notion.RichTextProperty)
	set("Notes", l.Notes, notion.RichTextProperty)
	set("Summary", l.Summary, notion.RichTextProperty)
	set("Status", string(l.Status), notion.SelectProperty)
	set("Source", l.Source, notion.SelectProperty)
	set("Ingested At", l.IngestedAt, notion.DateProperty)
	if len(l.Tags) > 0 {
		props["Tags"] = notion.MultiSelectProperty(l.Tags)
	}
	return props
}
