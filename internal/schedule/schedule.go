package schedule

import (
	"strings"
	"time"

	"github.com/antzucaro/matchr"
)

// Weekdays are the five day names a GroupSchedule may be keyed by, in the
// order the source renders its day tables.
var Weekdays = [5]string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница"}

// Lesson is one occupied slot of a day.
// Teachers[i] pairs with Classrooms[i]; Classrooms may be shorter than
// Teachers when the source leaves a classroom out.
type Lesson struct {
	Time       string   `json:"time"`
	Subject    string   `json:"subject"`
	Type       string   `json:"type"`
	Teachers   []string `json:"teachers"`
	Classrooms []string `json:"classrooms"`
}

// Classroom returns the classroom paired with the i-th teacher, or "" if
// none was reported.
func (l Lesson) Classroom(i int) string {
	if i < 0 || i >= len(l.Classrooms) {
		return ""
	}
	return l.Classrooms[i]
}

// DaySchedule is the ordered list of lessons of one weekday.
type DaySchedule []Lesson

// GroupSchedule maps a weekday name to its lessons. A missing day means no
// captured lessons, which callers treat the same as a day off.
type GroupSchedule map[string]DaySchedule

// Store maps a group name to its weekly schedule.
type Store map[string]GroupSchedule

// DayIndex returns the position of name in Weekdays, or -1.
func DayIndex(name string) int {
	for i, d := range Weekdays {
		if d == name {
			return i
		}
	}
	return -1
}

// Weekday maps a calendar date to its weekday name. Weekends report false.
func Weekday(t time.Time) (string, bool) {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return "", false
	}
	return Weekdays[int(wd)-1], true
}

// Day returns the lessons of one group on one weekday. The bool is false
// only when the group itself is unknown.
func (s Store) Day(group, day string) (DaySchedule, bool) {
	gs, ok := s[group]
	if !ok {
		return nil, false
	}
	return gs[day], true
}

// DayEntry is one weekday of a Week listing.
type DayEntry struct {
	Name    string
	Lessons DaySchedule
}

// Week lists all five weekdays of a group in fixed order; days without
// captured lessons come back empty.
func (s Store) Week(group string) ([]DayEntry, bool) {
	gs, ok := s[group]
	if !ok {
		return nil, false
	}
	return gs.Week(), true
}

// Week lists all five weekdays in fixed order.
func (g GroupSchedule) Week() []DayEntry {
	out := make([]DayEntry, 0, len(Weekdays))
	for _, d := range Weekdays {
		out = append(out, DayEntry{Name: d, Lessons: g[d]})
	}
	return out
}

// Closest returns the stored group name most similar to name, for "did you
// mean" hints. ok is false when the store is empty or nothing is similar.
func (s Store) Closest(name string) (group string, ok bool) {
	var best float64
	for g := range s {
		sim := matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(g), false)
		if sim > best || (sim == best && g < group) {
			best, group = sim, g
		}
	}
	return group, best >= 0.7
}
