package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timetable/internal/browser"
	"timetable/internal/catalog"
	"timetable/internal/config"
	"timetable/internal/diag"
	"timetable/internal/navigator"
)

type scrapeFlags struct {
	institute string
	school    string
	group     string
	week      string
	showUI    bool
	proxy     string
}

func (f *scrapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.institute, "institute", "", "Only this institute id")
	cmd.Flags().StringVar(&f.school, "school", "", "Only this school id")
	cmd.Flags().StringVar(&f.group, "group", "", "Only this group id")
	cmd.Flags().StringVarP(&f.week, "week", "w", "", "Week option to select (overrides config)")
	cmd.Flags().BoolVar(&f.showUI, "showui", false, "Show browser UI (disable headless mode)")
	cmd.Flags().StringVarP(&f.proxy, "proxy", "p", "", "Proxy URL (e.g. http://127.0.0.1:7890), overrides config")
}

func (f *scrapeFlags) apply(cfg *config.Config) {
	if f.week != "" {
		cfg.Week = f.week
	}
	if f.showUI {
		cfg.Headless = false
	}
	if f.proxy != "" {
		cfg.Proxy = f.proxy
	}
}

func (f *scrapeFlags) filter() catalog.Filter {
	return catalog.Filter{InstituteID: f.institute, SchoolID: f.school, GroupID: f.group}
}

func newScrapeCmd() *cobra.Command {
	var flags scrapeFlags
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Capture the rendered schedule page of every catalog group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sink, err := openSink()
			if err != nil {
				return err
			}
			defer sink.Close()
			flags.apply(cfg)

			_, err = scrape(cmd.Context(), cfg, sink, flags.filter())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// scrape runs one cascade per catalog target over a single browser page.
// Per-target failures end up in the report; only failures that make the
// whole batch impossible are returned.
func scrape(ctx context.Context, cfg *config.Config, sink *diag.Sink, filter catalog.Filter) (*navigator.Report, error) {
	log := sink.Logger

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Error("failed to load catalog", "path", cfg.CatalogFile, "err", err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	targets, err := cat.Targets(cfg.Week, filter)
	if err != nil {
		log.Error("failed to select targets", "err", err)
		return nil, err
	}
	log.Info("catalog loaded", "path", cfg.CatalogFile, "targets", len(targets), "week", cfg.Week)
	if len(targets) == 0 {
		return &navigator.Report{}, nil
	}

	if err := os.MkdirAll(cfg.ArtifactDir, 0755); err != nil {
		log.Error("failed to create artifact directory", "path", cfg.ArtifactDir, "err", err)
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := sink.EnsureScreenshotDir(); err != nil {
		log.Error("failed to create screenshot directory", "err", err)
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	b, err := browser.New(browser.Config{
		Headless: cfg.Headless,
		ProxyURL: cfg.Proxy,
		Attempts: cfg.LaunchAttempts,
		Logger:   log,
	})
	if err != nil {
		log.Error("failed to start browser", "attempts", cfg.LaunchAttempts, "err", err)
		return nil, err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Warn("failed to close browser", "err", err)
		}
	}()
	if proxy := b.GetProxyURL(); proxy != "" {
		log.Info("browser started", "proxy", proxy)
	}

	page, err := b.NewPage()
	if err != nil {
		log.Error("failed to create page", "err", err)
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	driver := navigator.NewRodDriver(page)
	driver.Watch(log)

	nav := navigator.New(driver, navigator.Options{
		BaseURL:        cfg.BaseURL,
		ArtifactDir:    cfg.ArtifactDir,
		WeekAlt:        cfg.WeekAlt,
		LoadTimeout:    cfg.LoadTimeout,
		SubmitTimeout:  cfg.SubmitTimeout,
		SettleDelay:    cfg.SettleDelay,
		BetweenTargets: cfg.BetweenTargets,
		Sink:           sink,
	})
	report, err := nav.Run(ctx, cat, targets)
	for _, s := range report.Skipped {
		log.Warn("skipped", append(s.Target.LogAttrs(), "err", s.Err)...)
	}
	return report, err
}
