package diag

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "scraper_log.txt")

	var console bytes.Buffer
	first, err := Open(logPath, dir, &console)
	require.NoError(t, err)
	first.Logger.Info("first run")
	require.NoError(t, first.Close())

	second, err := Open(logPath, dir, nil)
	require.NoError(t, err)
	second.Logger.Info("second run")
	require.NoError(t, second.Close())

	assert.NotEqual(t, first.RunID, second.RunID)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first run")
	assert.Contains(t, lines[0], "run_id="+first.RunID)
	assert.Contains(t, lines[0], "time=")
	assert.Contains(t, lines[1], "second run")

	assert.Contains(t, console.String(), "first run")
	assert.NotContains(t, console.String(), "second run")
}

func TestScreenshotPath(t *testing.T) {
	s := Discard("shots")
	assert.Equal(t, filepath.Join("shots", "error_ПМ21.png"), s.ScreenshotPath("error", "ПМ/21"))
	assert.NoError(t, s.Close())
}
