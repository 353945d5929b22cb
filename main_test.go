package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetable/internal/catalog"
	"timetable/internal/config"
	"timetable/internal/diag"
	"timetable/internal/schedule"
)

const capturedPage = `<!DOCTYPE html><html><body>
<table class="schedule-table">
<tr><th>Время</th><th>Занятие</th></tr>
<tr><td>09:00  -  10:30</td><td class="lesson-style"><span class="sch_subject">Мат.анализ</span><span class="sch_type">лекция</span><span class="sch_teacher">Иванов И.И.</span></td></tr>
</table>
</body></html>`

func TestExtractWritesStoreOnce(t *testing.T) {
	dir := t.TempDir()
	artifacts := filepath.Join(dir, "htmls")
	require.NoError(t, os.MkdirAll(artifacts, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(artifacts, "ПМ-21.html"), []byte(capturedPage), 0644))

	cfg := &config.Config{
		ArtifactDir:    artifacts,
		StoreFile:      filepath.Join(dir, "schedules.json"),
		ExtractWorkers: 2,
	}
	// A previous store is replaced, not merged.
	require.NoError(t, schedule.Save(cfg.StoreFile, schedule.Store{"old": {}}))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	batch, err := extract(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Empty(t, batch.Skipped)

	store, err := schedule.Load(cfg.StoreFile)
	require.NoError(t, err)
	require.Len(t, store, 1)
	assert.Equal(t, schedule.DaySchedule{{
		Time:       "09:00-10:30",
		Subject:    "Мат.анализ",
		Type:       "лекция",
		Teachers:   []string{"Иванов И.И."},
		Classrooms: []string{},
	}}, store["ПМ-21"]["Понедельник"])
}

func TestTimetableSelection(t *testing.T) {
	store := schedule.Store{
		"ПМ-21": {
			"Вторник": {{Time: "09:00-10:30", Subject: "Физика"}},
		},
	}

	tt, err := timetable(store, "ПМ-21", "", "")
	require.NoError(t, err)
	assert.Len(t, tt.Days, 5)

	// 2026-10-13 is a Tuesday.
	tt, err = timetable(store, "ПМ-21", "", "2026-10-13")
	require.NoError(t, err)
	require.Len(t, tt.Days, 1)
	assert.Equal(t, "Вторник", tt.Days[0].Name)
	assert.Equal(t, "Физика", tt.Days[0].Lessons[0].Subject)

	tt, err = timetable(store, "ПМ-21", "Среда", "")
	require.NoError(t, err)
	assert.Empty(t, tt.Days[0].Lessons)

	_, err = timetable(store, "ПМ-21", "", "2026-10-17")
	assert.ErrorContains(t, err, "weekend")

	_, err = timetable(store, "ПМ-21", "Суббота", "")
	assert.ErrorContains(t, err, "unknown weekday")

	_, err = timetable(store, "ФН-22", "", "")
	assert.ErrorContains(t, err, "unknown group")
}

func TestLookupGroupSuggests(t *testing.T) {
	store := schedule.Store{"ПМ-21": {}}

	_, err := lookupGroup(store, "ПМ21")
	assert.EqualError(t, err, `unknown group "ПМ21" (did you mean "ПМ-21"?)`)

	gs, err := lookupGroup(store, "ПМ-21")
	require.NoError(t, err)
	assert.NotNil(t, gs)
}

func TestScrapeLogsMissingCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.CatalogFile = filepath.Join(dir, "group_indexes.json")
	cfg.ArtifactDir = filepath.Join(dir, "htmls")
	cfg.LogFile = filepath.Join(dir, "scraper_log.txt")

	sink, err := diag.Open(cfg.LogFile, filepath.Join(dir, "screenshots"), nil)
	require.NoError(t, err)

	_, err = scrape(context.Background(), &cfg, sink, catalog.Filter{})
	require.ErrorContains(t, err, "failed to load catalog")
	require.NoError(t, sink.Close())

	logged, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "level=ERROR")
	assert.Contains(t, string(logged), `msg="failed to load catalog"`)
	assert.Contains(t, string(logged), "group_indexes.json")
	assert.Contains(t, string(logged), "run_id="+sink.RunID)
}

func TestExtractLogsStoreWriteFailure(t *testing.T) {
	dir := t.TempDir()
	artifacts := filepath.Join(dir, "htmls")
	require.NoError(t, os.MkdirAll(artifacts, 0755))
	// A directory where the store file should go makes the rename fail.
	storeFile := filepath.Join(dir, "schedules.json")
	require.NoError(t, os.MkdirAll(filepath.Join(storeFile, "busy"), 0755))

	logPath := filepath.Join(dir, "scraper_log.txt")
	sink, err := diag.Open(logPath, dir, nil)
	require.NoError(t, err)

	cfg := &config.Config{ArtifactDir: artifacts, StoreFile: storeFile, ExtractWorkers: 1}
	_, err = extract(context.Background(), cfg, sink.Logger)
	require.ErrorContains(t, err, "failed to write schedule store")
	require.NoError(t, sink.Close())

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), `msg="failed to write schedule store"`)
}
