// Package config loads the leadflow configuration from a YAML file, a .env
// file, LEADFLOW_* environment variables and command-line overrides, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/deduplication"
	"github.com/papacasper/leadflow-ai/internal/destinations"
	"github.com/papacasper/leadflow-ai/internal/enrichment"
	"github.com/papacasper/leadflow-ai/internal/envconf"
	"github.com/papacasper/leadflow-ai/internal/logging"
	"github.com/papacasper/leadflow-ai/internal/notify"
	"github.com/papacasper/leadflow-ai/internal/sources"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "config.yaml"

// Config is the full application configuration
type Config struct {
	// MockMode runs every stage offline: fixture source, JSON sink,
	// heuristic matcher and enricher, console notifier.
	MockMode bool `yaml:"mock_mode"`

	// Source and Destination select backends by key. Empty picks mock in
	// mock mode and xlsx otherwise.
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`

	// Provider is the completion provider: anthropic (default) or gemini.
	Provider           string `yaml:"provider"`
	ProviderBaseURL    string `yaml:"provider_base_url"`
	MaxConcurrentCalls int    `yaml:"max_concurrent_calls"`

	Processing   ProcessingConfig   `yaml:"processing"`
	Sources      sources.Config     `yaml:"sources"`
	Destinations DestinationsConfig `yaml:"destinations"`
	Ledger       LedgerConfig       `yaml:"ledger"`

	// Set at load time, never read from the file.
	DryRun   bool `yaml:"-"`
	Verbose  bool `yaml:"-"`
	AutoMock bool `yaml:"-"` // mock mode forced because the API key is unset
}

// ProcessingConfig groups the dedup and enrichment stages
type ProcessingConfig struct {
	Dedup      deduplication.Config `yaml:"dedup"`
	Enrichment enrichment.Config    `yaml:"enrichment"`
}

// DestinationsConfig holds the sinks plus the Slack notifier
type DestinationsConfig struct {
	destinations.Config `yaml:",inline"`
	Slack               notify.SlackConfig `yaml:"slack"`
}

// LedgerConfig controls the SQLite lead ledger outside of its use as a
// source or destination.
type LedgerConfig struct {
	Path string `yaml:"path"`

	// DedupAgainst seeds deduplication with every lead already in the
	// ledger.
	DedupAgainst bool `yaml:"dedup_against"`

	// RecordRuns stores each run's stats in the ledger.
	RecordRuns bool `yaml:"record_runs"`
}

// Overrides are command-line settings applied after the file and
// environment.
type Overrides struct {
	Mock               bool
	DryRun             bool
	Verbose            bool
	Source             string
	Destination        string
	ExistingFromLedger bool

	// EnvFile is the dotenv file to load. Default: .env
	EnvFile string
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Provider: ai.ProviderAnthropic,
		Processing: ProcessingConfig{
			Dedup:      deduplication.DefaultConfig(),
			Enrichment: enrichment.DefaultConfig(),
		},
		Sources: sources.DefaultConfig(),
		Destinations: DestinationsConfig{
			Config: destinations.DefaultConfig(),
			Slack:  notify.DefaultSlackConfig(),
		},
		Ledger: LedgerConfig{Path: "output/leads.db"},
	}
}

// Load builds the configuration. A missing config or .env file is not an
// error.
func Load(path string, o Overrides) (Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := gotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		logging.Debugf("config file %s not found, using defaults", path)
	default:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyOverrides(o)
	cfg.resolve()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays environment variables.
//
// Environment variables:
//   - LEADFLOW_MOCK_MODE: Run offline (true/false)
//   - LEADFLOW_SOURCE, LEADFLOW_DESTINATION: Backend keys
//   - LEADFLOW_PROVIDER: anthropic or gemini
//   - LEADFLOW_LEDGER_PATH: SQLite ledger location
//   - LEADFLOW_DEDUP_*, LEADFLOW_ENRICH_*: see the stage packages
func (c *Config) applyEnv() error {
	if err := envconf.Bool("LEADFLOW_MOCK_MODE", &c.MockMode); err != nil {
		return err
	}
	envconf.String("LEADFLOW_SOURCE", &c.Source)
	envconf.String("LEADFLOW_DESTINATION", &c.Destination)
	envconf.String("LEADFLOW_PROVIDER", &c.Provider)
	envconf.String("LEADFLOW_LEDGER_PATH", &c.Ledger.Path)

	dedup, err := c.Processing.Dedup.ApplyEnv()
	if err != nil {
		return err
	}
	enrich, err := c.Processing.Enrichment.ApplyEnv()
	if err != nil {
		return err
	}
	c.Processing.Dedup, c.Processing.Enrichment = dedup, enrich
	return nil
}

func (c *Config) applyOverrides(o Overrides) {
	if o.Mock {
		c.MockMode = true
	}
	if o.Source != "" {
		c.Source = o.Source
	}
	if o.Destination != "" {
		c.Destination = o.Destination
	}
	if o.ExistingFromLedger {
		c.Ledger.DedupAgainst = true
	}
	c.DryRun = o.DryRun
	c.Verbose = o.Verbose
}

// resolve fills in settings derived from others.
func (c *Config) resolve() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ai.ProviderAnthropic
	}
	if !c.MockMode && os.Getenv(ai.APIKeyEnvVar(c.Provider)) == "" {
		log.Printf("[CONFIG] %s not set, switching to mock mode", ai.APIKeyEnvVar(c.Provider))
		c.MockMode = true
		c.AutoMock = true
	}
	c.Processing.Dedup.MockMode = c.MockMode
	c.Processing.Enrichment.MockMode = c.MockMode

	dedupModel, enrichModel := ai.DefaultModels(c.Provider)
	c.Processing.Dedup.Model = c.providerModel(c.Processing.Dedup.Model, dedupModel)
	c.Processing.Enrichment.Model = c.providerModel(c.Processing.Enrichment.Model, enrichModel)

	if c.Source == "" {
		c.Source = c.defaultBackend()
	}
	if c.Destination == "" {
		c.Destination = c.defaultBackend()
	}
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	c.Destination = strings.ToLower(strings.TrimSpace(c.Destination))

	if c.Ledger.Path == "" {
		c.Ledger.Path = Default().Ledger.Path
	}
	// The sqlite backends follow the ledger unless set explicitly.
	if c.Sources.SQLite.Path == "" || c.Sources.SQLite.Path == sources.DefaultConfig().SQLite.Path {
		c.Sources.SQLite.Path = c.Ledger.Path
	}
	if c.Destinations.SQLite.Path == "" || c.Destinations.SQLite.Path == destinations.DefaultConfig().SQLite.Path {
		c.Destinations.SQLite.Path = c.Ledger.Path
	}
}

// providerModel returns model, or def when model is unset or is one of the
// other provider's defaults.
func (c *Config) providerModel(model, def string) string {
	model = strings.TrimSpace(model)
	other := ai.ProviderGemini
	if c.Provider == ai.ProviderGemini {
		other = ai.ProviderAnthropic
	}
	otherDedup, otherEnrich := ai.DefaultModels(other)
	if model == "" || model == otherDedup || model == otherEnrich {
		return def
	}
	return model
}

func (c *Config) defaultBackend() string {
	if c.MockMode {
		return sources.KindMock
	}
	return sources.KindXLSX
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.Provider != ai.ProviderAnthropic && c.Provider != ai.ProviderGemini {
		return fmt.Errorf("provider must be %s or %s (got %q)", ai.ProviderAnthropic, ai.ProviderGemini, c.Provider)
	}
	if c.MaxConcurrentCalls < 0 {
		return fmt.Errorf("max_concurrent_calls must be non-negative (got %d)", c.MaxConcurrentCalls)
	}
	if !slices.Contains(sources.Available(), c.Source) {
		return fmt.Errorf("source %q is not one of: %s", c.Source, strings.Join(sources.Available(), ", "))
	}
	if !slices.Contains(destinations.Available(), c.Destination) {
		return fmt.Errorf("destination %q is not one of: %s", c.Destination, strings.Join(destinations.Available(), ", "))
	}
	if err := c.checkModel("processing.dedup", c.Processing.Dedup.Model); err != nil {
		return err
	}
	if err := c.checkModel("processing.enrichment", c.Processing.Enrichment.Model); err != nil {
		return err
	}
	if err := c.Processing.Dedup.Validate(); err != nil {
		return fmt.Errorf("processing.dedup: %w", err)
	}
	if err := c.Processing.Enrichment.Validate(); err != nil {
		return fmt.Errorf("processing.enrichment: %w", err)
	}
	if c.Sources.Synthetic.DuplicateRate < 0 || c.Sources.Synthetic.DuplicateRate > 1 {
		return fmt.Errorf("sources.synthetic.duplicate_rate must be between 0 and 1 (got %v)", c.Sources.Synthetic.DuplicateRate)
	}
	return nil
}

func (c Config) checkModel(stage, model string) error {
	if p := ai.ModelProvider(model); p != "" && p != c.Provider {
		return fmt.Errorf("%s: %q is a %s model but provider is %s", stage, model, p, c.Provider)
	}
	return nil
}

// ProviderConfig returns the completion provider settings.
func (c Config) ProviderConfig() ai.ProviderConfig {
	return ai.ProviderConfig{
		Provider:           c.Provider,
		BaseURL:            c.ProviderBaseURL,
		MaxConcurrentCalls: c.MaxConcurrentCalls,
	}
}

// ModeLabel is MOCK or LIVE.
func (c Config) ModeLabel() string {
	if c.MockMode {
		return "MOCK"
	}
	return "LIVE"
}
