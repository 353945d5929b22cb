package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetable/internal/schedule"
)

func sample() *Timetable {
	return NewTimetable("ПМ-21", schedule.GroupSchedule{
		"Понедельник": {
			{Time: "09:00-10:30", Subject: "Мат.анализ", Type: "лекция", Teachers: []string{"Иванов И.И."}, Classrooms: []string{}},
			{Time: "10:40-12:10", Subject: "Физика", Type: "практика", Teachers: []string{"Петров", "Сидоров"}, Classrooms: []string{"А-101", "Б-202"}},
		},
		"Среда": {
			{Time: "12:40-14:10", Subject: "A|B <c>", Type: "лекция", Teachers: []string{}, Classrooms: []string{}},
		},
	})
}

func TestFormatRejectsUnknown(t *testing.T) {
	_, err := Format(sample(), "yaml")
	assert.EqualError(t, err, "unsupported output format: yaml")
}

func TestToHTML(t *testing.T) {
	out, err := Format(sample(), "html")
	require.NoError(t, err)

	assert.Contains(t, out, "<h2>ПМ-21</h2>")
	assert.Contains(t, out, "<td>Петров, Сидоров</td>")
	assert.Contains(t, out, "<td>A|B &lt;c&gt;</td>")
	assert.Equal(t, 3, strings.Count(out, "<p>Нет занятий</p>"))
	assert.Less(t, strings.Index(out, "Понедельник"), strings.Index(out, "Пятница"))
}

func TestToMarkdown(t *testing.T) {
	out, err := Format(sample(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "| Время | Предмет | Тип | Преподаватели | Аудитории |")
	assert.Contains(t, out, "| --- | --- | --- | --- | --- |")
	assert.Contains(t, out, "| 10:40-12:10 | Физика | практика | Петров, Сидоров | А-101, Б-202 |")
	assert.Contains(t, out, `A\|B <c>`)
	assert.NotContains(t, out, "TABLEPLACEHOLDER")
	assert.NotContains(t, out, "<table>")
}

func TestToText(t *testing.T) {
	out, err := Format(sample(), "text")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "ПМ-21", lines[0])
	assert.Contains(t, out, "Мат.анализ")
	assert.Contains(t, out, "Нет занятий")
	assert.NotContains(t, out, "\t")
}

func TestToJSONKeepsStoreShape(t *testing.T) {
	out, err := Format(sample(), "json")
	require.NoError(t, err)

	var store schedule.Store
	require.NoError(t, json.Unmarshal([]byte(out), &store))
	require.Contains(t, store, "ПМ-21")
	assert.Len(t, store["ПМ-21"], 2)
	assert.Equal(t, "Физика", store["ПМ-21"]["Понедельник"][1].Subject)
	assert.Contains(t, out, `"classrooms": []`)
}

func TestToCSV(t *testing.T) {
	out, err := Format(sample(), "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Группа", "День", "Время", "Предмет", "Тип", "Преподаватели", "Аудитории"}, records[0])
	assert.Equal(t, []string{"ПМ-21", "Среда", "12:40-14:10", "A|B <c>", "лекция", "", ""}, records[3])
}

func TestFormatFromExtension(t *testing.T) {
	assert.Equal(t, "markdown", FormatFromExtension("week.MD"))
	assert.Equal(t, "csv", FormatFromExtension("out/week.csv"))
	assert.Equal(t, "", FormatFromExtension("week.ics"))
}
