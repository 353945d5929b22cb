package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config controls how the browser is launched.
type Config struct {
	Headless bool
	ProxyURL string
	// Attempts bounds how often launching is tried before giving up.
	Attempts int
	Logger   *slog.Logger
}

// Browser wraps a launched rod.Browser and its launcher process.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	proxyURL string
}

// New launches a browser and connects to it. Launch failures are retried up
// to cfg.Attempts times; if all fail the run cannot proceed.
func New(cfg Config) (*Browser, error) {
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var b *Browser
	err := retry.Do(
		func() error {
			var err error
			b, err = launch(cfg)
			return err
		},
		retry.Attempts(uint(attempts)),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("browser launch failed, retrying", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return b, nil
}

func launch(cfg Config) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("window-size", "1920,1080").
		NoSandbox(true)

	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	url, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to launch: %w", err)
	}

	rb := rod.New().ControlURL(url)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return &Browser{
		browser:  rb,
		launcher: l,
		proxyURL: cfg.ProxyURL,
	}, nil
}

// GetProxyURL returns the proxy the browser was started with.
func (b *Browser) GetProxyURL() string {
	return b.proxyURL
}

// NewPage opens a blank page.
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Close shuts the browser down and reaps the launcher process.
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return nil
}
