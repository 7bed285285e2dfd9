package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/papacasper/leadflow-ai/internal/config"
	"github.com/papacasper/leadflow-ai/internal/pipeline"
)

// printSummary renders the end-of-run table.
func printSummary(w io.Writer, stats pipeline.Stats, cfg config.Config) {
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	mode := color.New(color.FgGreen, color.Bold).Sprint("LIVE")
	if cfg.MockMode {
		mode = color.New(color.FgYellow, color.Bold).Sprint("MOCK")
	}
	dryRun := ""
	if cfg.DryRun {
		dryRun = " " + gray("(dry run)")
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  LeadFlow AI — Pipeline Complete %s%s\n", mode, dryRun)
	fmt.Fprintln(w)

	for _, row := range summaryRows(stats) {
		fmt.Fprintf(w, "  %s  %s\n", cyan(fmt.Sprintf("%-14s", row[0])), bold(row[1]))
	}
	fmt.Fprintln(w)
}

func summaryRows(stats pipeline.Stats) [][2]string {
	notified := "No"
	if stats.Notified {
		notified = "Yes"
	}
	return [][2]string{
		{"Leads fetched", fmt.Sprint(stats.Fetched)},
		{"Normalized", fmt.Sprint(stats.Normalized)},
		{"Unique", fmt.Sprint(stats.Unique)},
		{"Duplicates", fmt.Sprint(stats.Duplicates)},
		{"Enriched", fmt.Sprint(stats.Enriched)},
		{"Written", fmt.Sprint(stats.Written)},
		{"Notified", notified},
		{"Duration", fmt.Sprintf("%.2fs", stats.Duration.Seconds())},
	}
}
