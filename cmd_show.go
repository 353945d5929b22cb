package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"timetable/internal/config"
	"timetable/internal/formatter"
	"timetable/internal/schedule"
)

func newShowCmd() *cobra.Command {
	var (
		format string
		output string
		day    string
		date   string
	)
	cmd := &cobra.Command{
		Use:   "show GROUP",
		Short: "Print a group's week (or one day) from the schedule store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && !cmd.Flags().Changed("format") {
				if f := formatter.FormatFromExtension(output); f != "" {
					format = f
				}
			}
			if !slices.Contains(formatter.Formats, strings.ToLower(format)) {
				return fmt.Errorf("invalid output format: %s", format)
			}

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			store, err := schedule.Load(cfg.StoreFile)
			if err != nil {
				return fmt.Errorf("failed to read schedule store: %w", err)
			}

			tt, err := timetable(store, args[0], day, date)
			if err != nil {
				return err
			}
			content, err := formatter.Format(tt, format)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return writeOutput(output, content)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format ("+strings.Join(formatter.Formats, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (format inferred from extension if -f not specified)")
	cmd.Flags().StringVar(&day, "day", "", "Only this weekday (e.g. Понедельник)")
	cmd.Flags().StringVar(&date, "date", "", "Only the weekday of this date (2006-01-02)")
	cmd.MarkFlagsMutuallyExclusive("day", "date")
	return cmd
}

// timetable selects what show renders: the whole week, or the single day
// named by day or falling on date.
func timetable(store schedule.Store, group, day, date string) (*formatter.Timetable, error) {
	gs, err := lookupGroup(store, group)
	if err != nil {
		return nil, err
	}

	if date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid --date: %w", err)
		}
		wd, ok := schedule.Weekday(t)
		if !ok {
			return nil, fmt.Errorf("%s is a weekend, there are no lessons", date)
		}
		day = wd
	}
	if day == "" {
		return formatter.NewTimetable(group, gs), nil
	}

	if schedule.DayIndex(day) < 0 {
		return nil, fmt.Errorf("unknown weekday %q (want one of %s)", day, strings.Join(schedule.Weekdays[:], ", "))
	}
	lessons, _ := store.Day(group, day)
	return &formatter.Timetable{
		Group: group,
		Days:  []schedule.DayEntry{{Name: day, Lessons: lessons}},
	}, nil
}
