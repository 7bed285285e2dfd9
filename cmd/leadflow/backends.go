package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papacasper/leadflow-ai/internal/ai"
	"github.com/papacasper/leadflow-ai/internal/destinations"
	"github.com/papacasper/leadflow-ai/internal/notify"
	"github.com/papacasper/leadflow-ai/internal/sources"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List the available sources, destinations and providers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Sources:       %s\n", strings.Join(sources.Available(), ", "))
		fmt.Fprintf(w, "Destinations:  %s\n", strings.Join(destinations.Available(), ", "))
		fmt.Fprintf(w, "Notifiers:     %s, %s\n", notify.KindConsole, notify.KindSlack)
		fmt.Fprintf(w, "Providers:     %s, %s\n", ai.ProviderAnthropic, ai.ProviderGemini)
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
