package main

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/config"
	"github.com/papacasper/leadflow-ai/internal/deduplication"
	"github.com/papacasper/leadflow-ai/internal/destinations"
	"github.com/papacasper/leadflow-ai/internal/enrichment"
	"github.com/papacasper/leadflow-ai/internal/notify"
	"github.com/papacasper/leadflow-ai/internal/pipeline"
	"github.com/papacasper/leadflow-ai/internal/sources"
	"github.com/papacasper/leadflow-ai/internal/storage/sqlite"
	"github.com/papacasper/leadflow-ai/internal/types"
)

var (
	runDryRun      bool
	runSource      string
	runDestination string
	runFromLedger  bool
)

// errNothingFetched makes the process exit 1 after the summary is shown.
var errNothingFetched = errors.New("no leads fetched")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lead pipeline once",
	Long: `Fetch leads from the configured source, normalize, deduplicate and
enrich them, then write them to the destination and send a notification.

Example:
  leadflow run --mock                    # Fixture leads, JSON output
  leadflow run --dry-run                 # Skip write and notify
  leadflow run --source synthetic        # Generated leads
  leadflow run --existing-from-ledger    # Dedup against previously written leads`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Overrides{
			DryRun:             runDryRun,
			Source:             runSource,
			Destination:        runDestination,
			ExistingFromLedger: runFromLedger,
		})
		if err != nil {
			return err
		}

		stats, err := runPipeline(cmd.Context(), &cfg)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), stats, cfg)

		if stats.Fetched == 0 {
			return errNothingFetched
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Run the pipeline but skip write and notify")
	runCmd.Flags().StringVar(&runSource, "source", "", "Source backend (overrides config)")
	runCmd.Flags().StringVar(&runDestination, "destination", "", "Destination backend (overrides config)")
	runCmd.Flags().BoolVar(&runFromLedger, "existing-from-ledger", false, "Deduplicate against leads already in the ledger")
	rootCmd.AddCommand(runCmd)
}

// runPipeline builds the stages from cfg and runs them once. It may switch
// cfg to mock mode when the completion client cannot be created.
func runPipeline(ctx context.Context, cfg *config.Config) (pipeline.Stats, error) {
	completer := newCompleter(ctx, cfg)

	p, err := buildPipeline(*cfg, completer)
	if err != nil {
		return pipeline.Stats{}, err
	}

	var existing []*types.Lead
	if cfg.Ledger.DedupAgainst {
		existing, err = sources.LoadLedger(ctx, cfg.Ledger.Path)
		if err != nil {
			return pipeline.Stats{}, err
		}
		log.Printf("[PIPELINE] Loaded %d existing leads from %s", len(existing), cfg.Ledger.Path)
	}

	stats := p.Run(ctx, existing)

	if cfg.Ledger.RecordRuns && !cfg.DryRun {
		if err := recordRun(ctx, cfg.Ledger.Path, stats); err != nil {
			log.Printf("[PIPELINE] warning: failed to record run: %v", err)
		}
	}
	return stats, nil
}

// newCompleter returns nil in mock mode. A client that cannot be created
// switches the run to mock mode instead of failing it.
func newCompleter(ctx context.Context, cfg *config.Config) ai.Completer {
	if cfg.MockMode {
		return nil
	}
	completer, err := ai.NewCompleter(ctx, cfg.ProviderConfig())
	if err != nil {
		log.Printf("[AI] warning: could not initialize %s client: %v", cfg.Provider, err)
		log.Printf("[AI] Falling back to mock mode")
		cfg.MockMode = true
		cfg.Processing.Dedup.MockMode = true
		cfg.Processing.Enrichment.MockMode = true
		return nil
	}
	return completer
}

func buildPipeline(cfg config.Config, completer ai.Completer) (*pipeline.Pipeline, error) {
	source, err := sources.New(cfg.Source, cfg.Sources)
	if err != nil {
		return nil, err
	}
	dedup, err := deduplication.New(cfg.Processing.Dedup, completer)
	if err != nil {
		return nil, err
	}
	enricher, err := enrichment.New(cfg.Processing.Enrichment, completer)
	if err != nil {
		return nil, err
	}

	var dest pipeline.Destination
	var notifier pipeline.Notifier
	if !cfg.DryRun {
		if dest, err = destinations.New(cfg.Destination, cfg.Destinations.Config); err != nil {
			return nil, err
		}
		notifier = notify.New(cfg.MockMode, cfg.Destinations.Slack)
	}

	return pipeline.New(source, dedup, enricher, dest, notifier, pipeline.Options{DryRun: cfg.DryRun})
}

func recordRun(ctx context.Context, path string, stats pipeline.Stats) error {
	store, err := sqlite.New(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordRun(ctx, stats)
}
