package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/papacasper/leadflow-ai/internal/config"
	"github.com/papacasper/leadflow-ai/internal/storage/sqlite"
)

var (
	historyLimit int
	historyLeads bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs and leads from the ledger",
	Long: `Show the runs recorded in the SQLite ledger, newest first.

Runs are recorded when ledger.record_runs is enabled. With --leads, list the
most recently stored leads instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Overrides{})
		if err != nil {
			return err
		}
		store, err := sqlite.New(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		gray := color.New(color.FgHiBlack).SprintFunc()

		if historyLeads {
			records, err := store.Records(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(w, gray("No leads in the ledger"))
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(w, "%s  %-25s %-30s %s\n", gray(r.CreatedAt), r.Lead.Name, r.Lead.Email, r.Lead.Status)
			}
			return nil
		}

		runs, err := store.Runs(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(w, gray("No runs recorded"))
			return nil
		}
		for _, s := range runs {
			fmt.Fprintf(w, "%s  %s\n", gray(s.RunID), s)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyLeads, "leads", false, "List stored leads instead of runs")
	rootCmd.AddCommand(historyCmd)
}
