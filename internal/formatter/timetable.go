package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/jedib0t/go-pretty/v6/table"

	"timetable/internal/schedule"
)

var columns = []string{"Время", "Предмет", "Тип", "Преподаватели", "Аудитории"}

const noLessons = "Нет занятий"

func lessonRow(l schedule.Lesson) []string {
	return []string{l.Time, l.Subject, l.Type, strings.Join(l.Teachers, ", "), strings.Join(l.Classrooms, ", ")}
}

// ToHTML renders one heading per day followed by its lesson table.
func (t *Timetable) ToHTML() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(t.Group))
	for _, d := range t.Days {
		fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(d.Name))
		if len(d.Lessons) == 0 {
			fmt.Fprintf(&b, "<p>%s</p>\n", noLessons)
			continue
		}
		b.WriteString("<table>\n<tr>")
		for _, c := range columns {
			fmt.Fprintf(&b, "<th>%s</th>", c)
		}
		b.WriteString("</tr>\n")
		for _, l := range d.Lessons {
			b.WriteString("<tr>")
			for _, v := range lessonRow(l) {
				fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(v))
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</table>\n")
	}
	return b.String(), nil
}

// ToText renders one boxed table per day.
func (t *Timetable) ToText() (string, error) {
	var b strings.Builder
	b.WriteString(t.Group + "\n")
	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	for _, d := range t.Days {
		fmt.Fprintf(&b, "\n%s\n", d.Name)
		if len(d.Lessons) == 0 {
			fmt.Fprintf(&b, "  %s\n", noLessons)
			continue
		}
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(header)
		for _, l := range d.Lessons {
			row := lessonRow(l)
			tw.AppendRow(table.Row{row[0], row[1], row[2], row[3], row[4]})
		}
		b.WriteString(tw.Render())
		b.WriteString("\n")
	}
	return b.String(), nil
}

// ToMarkdown converts the HTML rendering, with tables emitted as pipe tables.
func (t *Timetable) ToMarkdown() (string, error) {
	page, err := t.ToHTML()
	if err != nil {
		return "", err
	}

	withPlaceholders, tables := extractTables(page)
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(withPlaceholders)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	for i, tbl := range tables {
		markdown = strings.Replace(markdown, placeholder(i), "\n"+tbl, 1)
	}
	return strings.TrimSpace(markdown) + "\n", nil
}

func (t *Timetable) ToJSON() ([]byte, error) {
	gs := schedule.GroupSchedule{}
	for _, d := range t.Days {
		if len(d.Lessons) > 0 {
			gs[d.Name] = d.Lessons
		}
	}
	return json.MarshalIndent(schedule.Store{t.Group: gs}, "", "  ")
}

func (t *Timetable) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(append([]string{"Группа", "День"}, columns...)); err != nil {
		return "", err
	}
	for _, d := range t.Days {
		for _, l := range d.Lessons {
			if err := w.Write(append([]string{t.Group, d.Name}, lessonRow(l)...)); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

var tableRe = regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table>`)

func placeholder(i int) string {
	return fmt.Sprintf("TABLEPLACEHOLDER%dX", i)
}

// extractTables swaps every table in htmlContent for a placeholder paragraph
// and returns the tables converted to Markdown, in order.
func extractTables(htmlContent string) (string, []string) {
	var tables []string
	out := tableRe.ReplaceAllStringFunc(htmlContent, func(tableHTML string) string {
		tables = append(tables, convertHTMLTableToMarkdown(tableHTML))
		return "<p>" + placeholder(len(tables)-1) + "</p>"
	})
	return out, tables
}

func convertHTMLTableToMarkdown(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return tableHTML
	}

	var builder strings.Builder
	writeRow := func(cells []string) {
		builder.WriteString("| ")
		builder.WriteString(strings.Join(cells, " | "))
		builder.WriteString(" |\n")
	}

	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		rows := sel.Find("tr")
		var headers []string
		rows.First().Find("th, td").Each(func(_ int, c *goquery.Selection) {
			headers = append(headers, cellText(c))
		})
		if len(headers) == 0 {
			return
		}
		writeRow(headers)

		sep := make([]string, len(headers))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(sep)

		rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
			var cells []string
			row.Find("th, td").Each(func(_ int, c *goquery.Selection) {
				cells = append(cells, cellText(c))
			})
			if len(cells) > 0 {
				writeRow(cells)
			}
		})
	})
	return builder.String()
}

func cellText(c *goquery.Selection) string {
	return strings.ReplaceAll(strings.TrimSpace(c.Text()), "|", `\|`)
}
