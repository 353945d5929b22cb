package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"timetable/internal/config"
	"timetable/internal/diag"
	"timetable/internal/schedule"
)

var version = "dev"

var cfgFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "timetable",
		Short:   "Scrape the university timetable and turn it into structured data",
		Version: version,
		Long: `timetable drives the university's schedule form in a headless browser,
saves the rendered page of every group and extracts the lessons into a
single JSON document keyed by group, weekday and slot.`,
		Example: `  # Capture every group of the configured week, then build schedules.json
  timetable run

  # Capture one school only
  timetable scrape --institute 10 --school 3

  # Rebuild schedules.json from already captured pages
  timetable extract

  # Show a group's week as a Markdown table
  timetable show ПМ-21 -f markdown

  # Export a group's week to a calendar file
  timetable export ПМ-21 --week-start 2026-10-12 -o pm21.ics`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("TIMETABLE_CONFIG"), "Config file (default ./timetable.yaml)")

	rootCmd.AddCommand(
		newScrapeCmd(),
		newExtractCmd(),
		newRunCmd(),
		newShowCmd(),
		newExportCmd(),
	)
	return rootCmd
}

// openSink loads the configuration and opens the run's diagnostics sink.
func openSink() (*config.Config, *diag.Sink, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	sink, err := diag.Open(cfg.LogFile, cfg.ScreenshotDir, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open diagnostics log: %w", err)
	}
	return cfg, sink, nil
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Output written to: %s\n", path)
	return nil
}

// lookupGroup returns the schedule of group, suggesting a near miss when the
// name is not in the store.
func lookupGroup(store schedule.Store, group string) (schedule.GroupSchedule, error) {
	if gs, ok := store[group]; ok {
		return gs, nil
	}
	if near, ok := store.Closest(group); ok {
		return nil, fmt.Errorf("unknown group %q (did you mean %q?)", group, near)
	}
	return nil, fmt.Errorf("unknown group %q", group)
}
