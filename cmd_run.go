package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var flags scrapeFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape every group, then build the schedule store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sink, err := openSink()
			if err != nil {
				return err
			}
			defer sink.Close()
			flags.apply(cfg)

			report, err := scrape(cmd.Context(), cfg, sink, flags.filter())
			if err != nil {
				return err
			}
			batch, err := extract(cmd.Context(), cfg, sink.Logger)
			if err != nil {
				return err
			}

			sink.Logger.Info("run finished",
				"saved", len(report.Saved),
				"skipped", len(report.Skipped),
				"groups", len(batch.Store),
			)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
