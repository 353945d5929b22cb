package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"timetable/internal/config"
	"timetable/internal/export"
	"timetable/internal/schedule"
)

func newExportCmd() *cobra.Command {
	var (
		weekStart string
		tz        string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "export GROUP",
		Short: "Export a group's week as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group := args[0]

			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("could not load timezone: %w", err)
			}
			start, err := time.ParseInLocation("2006-01-02", weekStart, loc)
			if err != nil {
				return fmt.Errorf("invalid --week-start: %w", err)
			}

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			store, err := schedule.Load(cfg.StoreFile)
			if err != nil {
				return fmt.Errorf("failed to read schedule store: %w", err)
			}
			gs, err := lookupGroup(store, group)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			n, err := export.WriteICS(&buf, group, gs, start, loc)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Exported %d lessons\n", n)
			return writeOutput(output, buf.String())
		},
	}
	cmd.Flags().StringVar(&weekStart, "week-start", "", "Monday of the week to export (2006-01-02)")
	cmd.Flags().StringVar(&tz, "tz", "Asia/Oral", "Timezone the lesson times are in")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (stdout if empty)")
	_ = cmd.MarkFlagRequired("week-start")
	return cmd
}
