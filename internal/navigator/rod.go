package navigator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ Driver = (*RodDriver)(nil)

// RodDriver is a Driver backed by a live rod page.
type RodDriver struct {
	page *rod.Page
	// timeout bounds single DOM queries.
	timeout time.Duration
}

// NewRodDriver wraps page.
func NewRodDriver(page *rod.Page) *RodDriver {
	return &RodDriver{page: page, timeout: 10 * time.Second}
}

// Watch logs failed responses and browser console output to logger until the
// page closes.
func (d *RodDriver) Watch(logger *slog.Logger) {
	go d.page.EachEvent(func(e *proto.NetworkResponseReceived) {
		if e.Response.Status >= 400 {
			logger.Warn("network error", "status", e.Response.Status, "url", e.Response.URL)
		}
	}, func(e *proto.RuntimeConsoleAPICalled) {
		parts := make([]string, 0, len(e.Args))
		for _, arg := range e.Args {
			if arg.Description != "" {
				parts = append(parts, arg.Description)
			} else {
				parts = append(parts, arg.Value.String())
			}
		}
		logger.Debug("browser console", "type", e.Type, "text", strings.Join(parts, " "))
	})()
}

func (d *RodDriver) Open(url string, timeout time.Duration) error {
	p := d.page.Timeout(timeout)
	defer p.CancelTimeout()

	wait := p.WaitRequestIdle(
		500*time.Millisecond, nil, nil,
		[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
	)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	wait()
	return nil
}

func (d *RodDriver) Exists(selector string) (bool, error) {
	has, _, err := d.page.Timeout(d.timeout).Has(selector)
	return has, err
}

func (d *RodDriver) WaitFor(selector string, timeout time.Duration) error {
	if _, err := d.page.Timeout(timeout).Element(selector); err != nil {
		return fmt.Errorf("failed to wait for element '%s': %w", selector, err)
	}
	return nil
}

func (d *RodDriver) Count(selector string) (int, error) {
	res, err := d.page.Timeout(d.timeout).Eval(`(sel) => document.querySelectorAll(sel).length`, selector)
	if err != nil {
		return 0, fmt.Errorf("failed to count '%s': %w", selector, err)
	}
	return res.Value.Int(), nil
}

func (d *RodDriver) Text(selector string) (string, error) {
	res, err := d.page.Timeout(d.timeout).Eval(`(sel) => {
		const el = document.querySelector(sel);
		return el ? el.textContent.trim() : '';
	}`, selector)
	if err != nil {
		return "", fmt.Errorf("failed to read text of '%s': %w", selector, err)
	}
	return res.Value.Str(), nil
}

func (d *RodDriver) HasOption(id, value string) (bool, error) {
	res, err := d.page.Timeout(d.timeout).Eval(`(id, value) => {
		const select = document.getElementById(id);
		if (!select) return false;
		for (let i = 0; i < select.options.length; i++) {
			if (select.options[i].value === value) return true;
		}
		return false;
	}`, id, value)
	if err != nil {
		return false, fmt.Errorf("failed to inspect #%s: %w", id, err)
	}
	return res.Value.Bool(), nil
}

func (d *RodDriver) Select(id, value string) error {
	res, err := d.page.Timeout(d.timeout).Eval(`(id, value) => {
		const select = document.getElementById(id);
		if (!select) return false;
		select.value = value;
		select.dispatchEvent(new Event('change', { bubbles: true }));
		return select.value === value;
	}`, id, value)
	if err != nil {
		return fmt.Errorf("failed to set #%s: %w", id, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("#%s did not take value %q", id, value)
	}
	return nil
}

func (d *RodDriver) Values(ids ...string) (map[string]string, error) {
	res, err := d.page.Timeout(d.timeout).Eval(`(ids) => {
		const out = {};
		for (const id of ids) {
			const el = document.getElementById(id);
			out[id] = el ? el.value : '';
		}
		return out;
	}`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read select values: %w", err)
	}
	values := make(map[string]string, len(ids))
	for _, id := range ids {
		values[id] = res.Value.Get(id).Str()
	}
	return values, nil
}

func (d *RodDriver) Click(selector string) error {
	el, err := d.page.Timeout(d.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("failed to find '%s': %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		// covered or off-screen buttons still accept a scripted click
		if _, jsErr := el.Eval(`() => this.click()`); jsErr != nil {
			return fmt.Errorf("failed to click '%s': %w", selector, err)
		}
	}
	return nil
}

// HTML captures the full document including head, prefixed with a doctype.
func (d *RodDriver) HTML() (string, error) {
	res, err := d.page.Timeout(d.timeout).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("failed to get full HTML: %w", err)
	}
	html := res.Value.Str()
	if !strings.Contains(html, "<!DOCTYPE") {
		html = "<!DOCTYPE html>\n" + html
	}
	return html, nil
}

func (d *RodDriver) Screenshot(path string) error {
	img, err := d.page.Timeout(d.timeout).Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, img, 0644)
}
