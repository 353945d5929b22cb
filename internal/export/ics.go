package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"timetable/internal/schedule"
)

var slotRe = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})-(\d{1,2})[:.](\d{2})$`)

// ParseSlot splits a normalized slot such as "09:00-10:30" into offsets from
// midnight.
func ParseSlot(slot string) (start, end time.Duration, err error) {
	m := slotRe.FindStringSubmatch(strings.TrimSpace(slot))
	if m == nil {
		return 0, 0, fmt.Errorf("unrecognized time slot %q", slot)
	}
	var v [4]int
	for i := range v {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid time slot %q: %w", slot, err)
		}
		v[i] = n
	}
	start = time.Duration(v[0])*time.Hour + time.Duration(v[1])*time.Minute
	end = time.Duration(v[2])*time.Hour + time.Duration(v[3])*time.Minute
	if end <= start || v[0] > 23 || v[2] > 23 || v[1] > 59 || v[3] > 59 {
		return 0, 0, fmt.Errorf("invalid time slot %q", slot)
	}
	return start, end, nil
}

// WriteICS writes one group's week as an iCalendar document. weekStart must
// be a Monday; lessons are placed on the following five days in loc.
// Lessons whose slot cannot be parsed are skipped. It returns the number of
// events written.
func WriteICS(w io.Writer, group string, gs schedule.GroupSchedule, weekStart time.Time, loc *time.Location) (int, error) {
	if weekStart.Weekday() != time.Monday {
		return 0, fmt.Errorf("week start %s is a %s, not a Monday", weekStart.Format("2006-01-02"), weekStart.Weekday())
	}
	if loc == nil {
		loc = time.Local
	}
	day0 := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, loc)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(group)

	now := time.Now()
	n := 0
	for i, d := range gs.Week() {
		date := day0.AddDate(0, 0, i)
		for j, l := range d.Lessons {
			start, end, err := ParseSlot(l.Time)
			if err != nil {
				continue
			}
			startAt := date.Add(start)

			event := cal.AddEvent(fmt.Sprintf("%s-%s-%d@timetable", group, startAt.Format("20060102T1504"), j))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetStartAt(startAt)
			event.SetEndAt(date.Add(end))
			event.SetSummary(summary(l))
			if len(l.Classrooms) > 0 {
				event.SetLocation(strings.Join(l.Classrooms, ", "))
			}
			event.SetDescription(description(group, l))
			n++
		}
	}

	return n, cal.SerializeTo(w)
}

func summary(l schedule.Lesson) string {
	if l.Type == "" {
		return l.Subject
	}
	if l.Subject == "" {
		return l.Type
	}
	return fmt.Sprintf("%s (%s)", l.Subject, l.Type)
}

func description(group string, l schedule.Lesson) string {
	lines := []string{"Группа: " + group}
	if len(l.Teachers) > 0 {
		lines = append(lines, "Преподаватели: "+strings.Join(l.Teachers, ", "))
	}
	return strings.Join(lines, "\n")
}
