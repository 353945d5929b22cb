package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting of a batch run.
type Config struct {
	BaseURL string `mapstructure:"base_url"`

	DataDir       string `mapstructure:"data_dir"`
	CatalogFile   string `mapstructure:"catalog_file"`
	StoreFile     string `mapstructure:"store_file"`
	ArtifactDir   string `mapstructure:"artifact_dir"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`
	LogFile       string `mapstructure:"log_file"`

	Week    string `mapstructure:"week"`
	WeekAlt string `mapstructure:"week_alt"`

	Headless       bool   `mapstructure:"headless"`
	Proxy          string `mapstructure:"proxy"`
	LaunchAttempts int    `mapstructure:"launch_attempts"`

	LoadTimeout    time.Duration `mapstructure:"load_timeout"`
	SubmitTimeout  time.Duration `mapstructure:"submit_timeout"`
	SettleDelay    time.Duration `mapstructure:"settle_delay"`
	BetweenTargets time.Duration `mapstructure:"between_targets"`

	ExtractWorkers int `mapstructure:"extract_workers"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		BaseURL:        "https://wkau.edu.kz/ru/raspisanie-zanyatij/",
		DataDir:        ".",
		CatalogFile:    "group_indexes.json",
		StoreFile:      "schedules.json",
		ArtifactDir:    "htmls",
		ScreenshotDir:  "screenshots",
		LogFile:        "scraper_log.txt",
		Week:           "11 неделя",
		WeekAlt:        "11",
		Headless:       true,
		LaunchAttempts: 3,
		LoadTimeout:    30 * time.Second,
		SubmitTimeout:  30 * time.Second,
		SettleDelay:    1500 * time.Millisecond,
		BetweenTargets: 2 * time.Second,
		ExtractWorkers: 4,
	}
}

// Load merges defaults, the optional config file and TIMETABLE_* environment
// variables, then resolves relative paths against data_dir.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("catalog_file", d.CatalogFile)
	v.SetDefault("store_file", d.StoreFile)
	v.SetDefault("artifact_dir", d.ArtifactDir)
	v.SetDefault("screenshot_dir", d.ScreenshotDir)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("week", d.Week)
	v.SetDefault("week_alt", d.WeekAlt)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("proxy", d.Proxy)
	v.SetDefault("launch_attempts", d.LaunchAttempts)
	v.SetDefault("load_timeout", d.LoadTimeout)
	v.SetDefault("submit_timeout", d.SubmitTimeout)
	v.SetDefault("settle_delay", d.SettleDelay)
	v.SetDefault("between_targets", d.BetweenTargets)
	v.SetDefault("extract_workers", d.ExtractWorkers)

	v.SetEnvPrefix("TIMETABLE")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("timetable")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolvePaths() {
	for _, p := range []*string{&c.CatalogFile, &c.StoreFile, &c.ArtifactDir, &c.ScreenshotDir, &c.LogFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.DataDir, *p)
		}
	}
}

// Validate rejects settings a run cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url is required"))
	}
	if c.Week == "" {
		errs = append(errs, errors.New("week is required"))
	}
	if c.CatalogFile == "" || c.StoreFile == "" || c.ArtifactDir == "" || c.LogFile == "" {
		errs = append(errs, errors.New("catalog_file, store_file, artifact_dir and log_file are required"))
	}
	if c.LoadTimeout <= 0 || c.SubmitTimeout <= 0 {
		errs = append(errs, errors.New("load_timeout and submit_timeout must be positive"))
	}
	if c.SettleDelay < 0 || c.BetweenTargets < 0 {
		errs = append(errs, errors.New("settle_delay and between_targets must not be negative"))
	}
	if c.ExtractWorkers < 1 {
		errs = append(errs, errors.New("extract_workers must be at least 1"))
	}
	if c.LaunchAttempts < 1 {
		errs = append(errs, errors.New("launch_attempts must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
