package enrichment

import (
	"fmt"
	"strings"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/envconf"
)

// Config holds configuration for lead enrichment
type Config struct {
	// MockMode selects the keyword heuristic instead of the model.
	MockMode bool `yaml:"-"`

	// Model writes summaries and picks tags.
	// Default: claude-sonnet-4-5-20250929
	Model string `yaml:"claude_model"`

	// BatchSize is the number of leads sent in one model request.
	// Default: 5
	BatchSize int `yaml:"batch_size"`

	// MaxTokens is the response budget per batch.
	// Default: 1024
	MaxTokens int `yaml:"max_tokens"`

	// ValidTags restricts returned tags. Empty means no filtering.
	ValidTags []string `yaml:"valid_tags"`
}

// DefaultConfig returns the default enrichment configuration
func DefaultConfig() Config {
	return Config{
		Model:     ai.ModelSonnet,
		BatchSize: 5,
		MaxTokens: 1024,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive (got %d)", c.BatchSize)
	}
	if c.BatchSize > 100 {
		return fmt.Errorf("batch_size too large (got %d, max 100)", c.BatchSize)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive (got %d)", c.MaxTokens)
	}
	if c.MaxTokens > 8192 {
		return fmt.Errorf("max_tokens too large (got %d, max 8192)", c.MaxTokens)
	}
	if !c.MockMode && c.Model == "" {
		return fmt.Errorf("claude_model must be set when mock mode is off")
	}
	for i, tag := range c.ValidTags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("valid_tags[%d] is empty", i)
		}
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf("Config{Mock: %t, Model: %s, BatchSize: %d, MaxTokens: %d, ValidTags: %d}",
		c.MockMode, c.Model, c.BatchSize, c.MaxTokens, len(c.ValidTags))
}

// ApplyEnv overlays environment variables onto c.
//
// Environment variables:
//   - LEADFLOW_ENRICH_MODEL: Model for summaries and tags (default: claude-sonnet-4-5-20250929)
//   - LEADFLOW_ENRICH_BATCH_SIZE: Leads per model request (default: 5)
//   - LEADFLOW_ENRICH_MAX_TOKENS: Response budget per batch (default: 1024)
//   - LEADFLOW_ENRICH_VALID_TAGS: Comma-separated tag allow-list (default: none)
func (c Config) ApplyEnv() (Config, error) {
	envconf.String("LEADFLOW_ENRICH_MODEL", &c.Model)
	if err := envconf.Int("LEADFLOW_ENRICH_BATCH_SIZE", &c.BatchSize); err != nil {
		return c, err
	}
	if err := envconf.Int("LEADFLOW_ENRICH_MAX_TOKENS", &c.MaxTokens); err != nil {
		return c, err
	}
	envconf.List("LEADFLOW_ENRICH_VALID_TAGS", &c.ValidTags)
	return c, nil
}

// ConfigFromEnv creates a Config from environment variables, falling back to defaults.
func ConfigFromEnv() (Config, error) {
	cfg, err := DefaultConfig().ApplyEnv()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}
