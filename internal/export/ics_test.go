package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetable/internal/schedule"
)

var utc5 = time.FixedZone("UTC+5", 5*60*60)

func TestWriteICS(t *testing.T) {
	gs := schedule.GroupSchedule{
		"Понедельник": {
			{Time: "09:00-10:30", Subject: "Мат.анализ", Type: "лекция", Teachers: []string{"Иванов И.И."}, Classrooms: []string{}},
		},
		"Среда": {
			{Time: "10:40-12:10", Subject: "Физика", Type: "практика", Teachers: []string{"Петров"}, Classrooms: []string{"А-101"}},
			{Time: "1-пара", Subject: "Без времени", Teachers: []string{}, Classrooms: []string{}},
		},
	}

	var buf bytes.Buffer
	n, err := WriteICS(&buf, "ПМ-21", gs, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), utc5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.Contains(t, out, "SUMMARY:Мат.анализ (лекция)")
	assert.Contains(t, out, "LOCATION:А-101")
	// 12 Oct 2026 09:00 at UTC+5 is 04:00 UTC.
	assert.Contains(t, out, "DTSTART:20261012T040000Z")
	// Wednesday of the same week.
	assert.Contains(t, out, "DTEND:20261014T071000Z")
	assert.NotContains(t, out, "Без времени")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
}

func TestWriteICSRequiresMonday(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteICS(&buf, "ПМ-21", schedule.GroupSchedule{}, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), utc5)
	assert.ErrorContains(t, err, "not a Monday")
}

func TestParseSlot(t *testing.T) {
	start, end, err := ParseSlot("9.00-10.30")
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour, start)
	assert.Equal(t, 10*time.Hour+30*time.Minute, end)

	start, end, err = ParseSlot(" 08:05-9.40 ")
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour+5*time.Minute, start)
	assert.Equal(t, 9*time.Hour+40*time.Minute, end)

	for _, bad := range []string{"", "1-пара", "10:30-09:00", "25:00-26:00", "09:75-10:00", "١٠:٣٠-١١:٠٠"} {
		_, _, err := ParseSlot(bad)
		assert.Error(t, err, bad)
	}
}
