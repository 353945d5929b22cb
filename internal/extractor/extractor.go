package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"timetable/internal/artifact"
	"timetable/internal/schedule"
)

const (
	dayTable      = ".schedule-table"
	lessonCell    = ".lesson-style"
	subjectClass  = ".sch_subject"
	typeClass     = ".sch_type"
	teacherClass  = ".sch_teacher"
	teachersClass = ".sch_teachers"
	classroomTok  = "sch_classroom"
)

// ErrNoScheduleRoot marks a document without any schedule table.
var ErrNoScheduleRoot = errors.New("no schedule table in document")

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	timeRange  = regexp.MustCompile(`(\d{1,2}[:.]\d{2})\s*[-‐‑–—]*\s*(\d{1,2}[:.]\d{2})`)
	teacherSep = regexp.MustCompile(`[.,]`)
)

// NormalizeTime collapses whitespace in a time cell and joins the two ends
// of the range with a single dash: "09:00  -  10:30" becomes "09:00-10:30".
// Text that is not a recognizable range keeps only the first space replaced.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
	if m := timeRange.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2]
	}
	return strings.Replace(s, " ", "-", 1)
}

// SplitTeachers splits a single teachers string on dots or commas.
func SplitTeachers(s string) []string {
	out := []string{}
	for _, part := range teacherSep.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Parse reads one captured page and returns its weekly schedule. Tables map
// to weekdays by position; tables past Friday are ignored and days without
// lessons are left out.
func Parse(r io.Reader) (schedule.GroupSchedule, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	tables := doc.Find(dayTable)
	if tables.Length() == 0 {
		return nil, ErrNoScheduleRoot
	}

	gs := schedule.GroupSchedule{}
	tables.EachWithBreak(func(i int, table *goquery.Selection) bool {
		if i >= len(schedule.Weekdays) {
			return false
		}
		if day := parseDay(table); len(day) > 0 {
			gs[schedule.Weekdays[i]] = day
		}
		return true
	})
	return gs, nil
}

func parseDay(table *goquery.Selection) schedule.DaySchedule {
	var day schedule.DaySchedule
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		// header
		if i == 0 {
			return
		}
		slot := NormalizeTime(row.Find("td").First().Text())
		row.Find(lessonCell).Each(func(_ int, cell *goquery.Selection) {
			if l, ok := parseLesson(cell, slot); ok {
				day = append(day, l)
			}
		})
	})
	return day
}

func parseLesson(cell *goquery.Selection, slot string) (schedule.Lesson, bool) {
	l := schedule.Lesson{
		Time:       slot,
		Subject:    strings.TrimSpace(cell.Find(subjectClass).Text()),
		Type:       strings.TrimSpace(cell.Find(typeClass).Text()),
		Teachers:   []string{},
		Classrooms: []string{},
	}

	teachers := cell.Find(teacherClass)
	pairs := 0
	teachers.Each(func(_ int, t *goquery.Selection) {
		name := strings.TrimSpace(t.Text())
		if name == "" {
			return
		}
		pairs++
		l.Teachers = append(l.Teachers, name)
		if room := strings.TrimSpace(NextWithClass(t, classroomTok).Text()); room != "" {
			l.Classrooms = append(l.Classrooms, room)
		}
	})
	if teachers.Length() == 0 {
		if joined := cell.Find(teachersClass); joined.Length() > 0 {
			l.Teachers = SplitTeachers(joined.Text())
			pairs = len(l.Teachers)
		}
	}

	if l.Subject == "" && l.Type == "" && pairs == 0 {
		return schedule.Lesson{}, false
	}
	return l, true
}

// ParseFile parses the artifact at path.
func ParseFile(path string) (schedule.GroupSchedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Batch is the outcome of extracting a whole artifact directory.
type Batch struct {
	Store schedule.Store
	// Skipped lists artifacts that could not be read or held no schedule.
	Skipped []string
}

// ExtractDir parses every artifact in dir with up to workers goroutines.
// Unreadable or rootless artifacts are logged and skipped; only listing
// failures and cancellation abort the batch.
func ExtractDir(ctx context.Context, dir string, workers int, logger *slog.Logger) (*Batch, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := artifact.List(dir)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	asm := schedule.NewAssembler()
	skipped := make([]bool, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			group := artifact.GroupKey(path)
			gs, err := ParseFile(path)
			if err != nil {
				logger.Warn("skipping artifact", "group", group, "path", path, "err", err)
				skipped[i] = true
				return nil
			}
			asm.Add(group, gs)
			logger.Info("extracted", "group", group, "days", len(gs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &Batch{Store: asm.Store()}
	for i, s := range skipped {
		if s {
			b.Skipped = append(b.Skipped, paths[i])
		}
	}
	return b, nil
}
