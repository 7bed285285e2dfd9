package deduplication

import (
	"fmt"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/envconf"
)

// Config holds configuration for the deduplication engine
type Config struct {
	// MockMode selects the HeuristicMatcher instead of the model-backed one.
	MockMode bool `yaml:"-"`

	// FuzzyThreshold is the minimum name-token overlap (0.0-1.0) the
	// heuristic matcher requires before looking at company or domain.
	// Default: 0.7
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// Model is the completion model asked the SAME/DIFFERENT question.
	// Default: claude-haiku-4-5-20251001
	Model string `yaml:"claude_model"`

	// MaxTokens is the response budget for a match query. The answer is one
	// word, so this stays small.
	// Default: 10
	MaxTokens int `yaml:"max_tokens"`
}

// DefaultConfig returns the default deduplication configuration
func DefaultConfig() Config {
	return Config{
		MockMode:       false,
		FuzzyThreshold: 0.7,
		Model:          ai.ModelHaiku,
		MaxTokens:      10,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.FuzzyThreshold < 0.0 || c.FuzzyThreshold > 1.0 {
		return fmt.Errorf("fuzzy_threshold must be between 0.0 and 1.0 (got %.2f)",
			c.FuzzyThreshold)
	}
	if !c.MockMode && c.Model == "" {
		return fmt.Errorf("claude_model must be set when mock mode is off")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive (got %d)", c.MaxTokens)
	}
	if c.MaxTokens > 4096 {
		return fmt.Errorf("max_tokens too large (got %d, max 4096)", c.MaxTokens)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf("Config{Mock: %t, Threshold: %.2f, Model: %s, MaxTokens: %d}",
		c.MockMode, c.FuzzyThreshold, c.Model, c.MaxTokens)
}

// ApplyEnv overlays environment variables onto c.
//
// Environment variables:
//   - LEADFLOW_DEDUP_FUZZY_THRESHOLD: Minimum name-token overlap (0.0-1.0) (default: 0.7)
//   - LEADFLOW_DEDUP_MODEL: Model used for match queries (default: claude-haiku-4-5-20251001)
//   - LEADFLOW_DEDUP_MAX_TOKENS: Response budget per match query (default: 10)
func (c Config) ApplyEnv() (Config, error) {
	if err := envconf.Float("LEADFLOW_DEDUP_FUZZY_THRESHOLD", &c.FuzzyThreshold); err != nil {
		return c, err
	}
	envconf.String("LEADFLOW_DEDUP_MODEL", &c.Model)
	if err := envconf.Int("LEADFLOW_DEDUP_MAX_TOKENS", &c.MaxTokens); err != nil {
		return c, err
	}
	return c, nil
}

// ConfigFromEnv creates a Config from environment variables, falling back to defaults.
// Returns an error if any environment variable has an invalid value.
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
