package sources

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/papacasper/leadflow-ai/internal/notion"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// NotionConfig configures the Notion database source. Credentials are read
// from the named environment variables, never from the config file.
type NotionConfig struct {
	TokenEnvVar      string `yaml:"token_env_var"`
	DatabaseIDEnvVar string `yaml:"database_id_env_var"`
	BaseURL          string `yaml:"base_url"`
}

// Notion reads leads from a Notion database. Expected properties: Name
// (title), Email (email), Phone (phone_number), Company and Notes
// (rich_text).
type Notion struct {
	cfg NotionConfig
}

// NewNotion creates a Notion source.
func NewNotion(cfg NotionConfig) *Notion {
	def := DefaultConfig().Notion
	if cfg.TokenEnvVar == "" {
		cfg.TokenEnvVar = def.TokenEnvVar
	}
	if cfg.DatabaseIDEnvVar == "" {
		cfg.DatabaseIDEnvVar = def.DatabaseIDEnvVar
	}
	return &Notion{cfg: cfg}
}

// Name implements pipeline.Source.
func (*Notion) Name() string { return KindNotion }

// Fetch queries every page of the database.
func (s *Notion) Fetch(ctx context.Context) ([]*types.Lead, error) {
	token := os.Getenv(s.cfg.TokenEnvVar)
	databaseID := os.Getenv(s.cfg.DatabaseIDEnvVar)
	if token == "" || databaseID == "" {
		return nil, fmt.Errorf("%w (%s / %s)", notion.ErrMissingCredentials, s.cfg.TokenEnvVar, s.cfg.DatabaseIDEnvVar)
	}

	client, err := notion.NewClient(notion.Config{Token: token, BaseURL: s.cfg.BaseURL})
	if err != nil {
		return nil, err
	}
	pages, err := client.QueryDatabase(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from Notion: %w", err)
	}

	leads := make([]*types.Lead, len(pages))
	for i, page := range pages {
		leads[i] = pageToLead(page)
	}
	log.Printf("[SOURCE] Fetched %d leads from Notion", len(leads))
	return leads, nil
}

func pageToLead(page notion.Page) *types.Lead {
	props := page.Properties
	l := types.NewLead(KindNotion)
	l.Name = props["Name"].TitleText()
	l.Email = props["Email"].EmailValue()
	l.Phone = props["Phone"].PhoneValue()
	l.Company = props["Company"].PlainRichText()
	l.Notes = props["Notes"].PlainRichText()
	l.RawData = map[string]any{"notion_page_id": page.ID}
	return l
}
