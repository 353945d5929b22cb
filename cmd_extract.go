package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"timetable/internal/config"
	"timetable/internal/extractor"
	"timetable/internal/schedule"
)

func newExtractCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Build the schedule store from captured pages",
		Long: `extract parses every captured page in the artifact directory and writes
the schedule store once, replacing the previous one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sink, err := openSink()
			if err != nil {
				return err
			}
			defer sink.Close()
			if workers > 0 {
				cfg.ExtractWorkers = workers
			}

			_, err = extract(cmd.Context(), cfg, sink.Logger)
			return err
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Parallel parsers (overrides config)")
	return cmd
}

func extract(ctx context.Context, cfg *config.Config, log *slog.Logger) (*extractor.Batch, error) {
	log.Info("extracting", "dir", cfg.ArtifactDir, "workers", cfg.ExtractWorkers)

	batch, err := extractor.ExtractDir(ctx, cfg.ArtifactDir, cfg.ExtractWorkers, log)
	if err != nil {
		log.Error("extraction aborted", "dir", cfg.ArtifactDir, "err", err)
		return nil, err
	}
	if err := schedule.Save(cfg.StoreFile, batch.Store); err != nil {
		log.Error("failed to write schedule store", "path", cfg.StoreFile, "err", err)
		return nil, fmt.Errorf("failed to write schedule store: %w", err)
	}

	log.Info("schedule store written", "path", cfg.StoreFile, "groups", len(batch.Store), "skipped", len(batch.Skipped))
	return batch, nil
}
