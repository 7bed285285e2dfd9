package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papacasper/leadflow-ai/internal/destinations"
	"github.com/papacasper/leadflow-ai/internal/sources"
	"github.com/papacasper/leadflow-ai/internal/types"
)

var (
	seedSynthetic int
	seedSeed      int64
	seedOutput    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Show the fixture leads and export them as JSON",
	Long: `List the leads served by the mock source and export them to a JSON file
for manual import.

With --synthetic N, export N generated leads instead.

Example:
  leadflow seed
  leadflow seed --synthetic 100 --seed 7 --output output/synthetic.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		var leads []*types.Lead
		if seedSynthetic > 0 {
			leads = sources.GenerateLeads(sources.SyntheticConfig{
				Count:         seedSynthetic,
				Seed:          seedSeed,
				DuplicateRate: sources.DefaultConfig().Synthetic.DuplicateRate,
			})
			fmt.Fprintf(w, "\nGenerated %d synthetic leads:\n\n", len(leads))
		} else {
			leads = sources.FixtureLeads()
			fmt.Fprintf(w, "\nMock source contains %d leads:\n\n", len(leads))
		}

		for i, l := range leads {
			fmt.Fprintf(w, "  %2d. %-25s %-35s %s\n", i+1, l.Name, l.Email, l.Company)
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "To run the pipeline with mock data:")
		fmt.Fprintln(w, "  leadflow run --mock")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "To read a spreadsheet instead, add a sheet with the columns")
		fmt.Fprintln(w, "name, email, phone, company, notes and run:")
		fmt.Fprintln(w, "  leadflow run --source xlsx")

		if err := destinations.WriteJSON(seedOutput, leads); err != nil {
			return err
		}
		abs, err := filepath.Abs(seedOutput)
		if err != nil {
			abs = seedOutput
		}
		fmt.Fprintf(w, "\nSeed data exported to: %s\n", abs)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedSynthetic, "synthetic", 0, "Export N generated leads instead of the fixtures")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", sources.DefaultConfig().Synthetic.Seed, "Random seed for --synthetic (0 = random)")
	seedCmd.Flags().StringVar(&seedOutput, "output", "output/seed_leads.json", "Export path")
	rootCmd.AddCommand(seedCmd)
}
