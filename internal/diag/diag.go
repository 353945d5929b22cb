// Package diag is the diagnostics sink of a batch run: an append-only,
// timestamped log plus a directory of failure screenshots.
package diag

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"timetable/internal/artifact"
)

// Sink bundles the run logger with where screenshots go.
type Sink struct {
	Logger *slog.Logger
	RunID  string

	file          *os.File
	screenshotDir string
}

// Open appends to the log file at logPath (creating it if needed) and tees
// every record to console. Each record carries the run id.
func Open(logPath, screenshotDir string, console io.Writer) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var w io.Writer = f
	if console != nil {
		w = io.MultiWriter(console, f)
	}

	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("run_id", runID)

	return &Sink{
		Logger:        logger,
		RunID:         runID,
		file:          f,
		screenshotDir: screenshotDir,
	}, nil
}

// Discard returns a sink that drops everything. Screenshots still get paths
// under dir so callers need no special casing.
func Discard(dir string) *Sink {
	return &Sink{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		RunID:         "discard",
		screenshotDir: dir,
	}
}

// ScreenshotPath names a failure screenshot after what failed and for whom.
func (s *Sink) ScreenshotPath(context, name string) string {
	return filepath.Join(s.screenshotDir, artifact.Sanitize(context+"_"+name)+".png")
}

// EnsureScreenshotDir creates the screenshot directory.
func (s *Sink) EnsureScreenshotDir() error {
	if s.screenshotDir == "" {
		return nil
	}
	return os.MkdirAll(s.screenshotDir, 0755)
}

// Close flushes and closes the log file.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
