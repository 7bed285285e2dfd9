// Command leadflow ingests leads, removes duplicates, enriches them and
// forwards them to a sink and a notification channel.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papacasper/leadflow-ai/internal/config"
	"github.com/papacasper/leadflow-ai/internal/logging"
)

var (
	configPath string
	mockFlag   bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "leadflow",
	Short: "AI-assisted lead dedup and enrichment",
	Long: `LeadFlow pulls leads from a source, normalizes and deduplicates them,
enriches them with a summary and tags, writes them to a destination and
posts a notification.

Without an API key every stage runs offline (mock mode).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&mockFlag, "mock", false, "Run in mock mode (no API keys or external services needed)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies the persistent flags plus any command-specific
// overrides.
func loadConfig(o config.Overrides) (config.Config, error) {
	o.Mock = o.Mock || mockFlag
	o.Verbose = verbose
	return config.Load(configPath, o)
}
