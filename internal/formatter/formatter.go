package formatter

import (
	"fmt"
	"strings"

	"timetable/internal/schedule"
)

// Content is something that can be rendered in every output format.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

// Formats lists the accepted values of the format argument.
var Formats = []string{"text", "markdown", "json", "csv", "html"}

func Format(content Content, format string) (string, error) {
	switch strings.ToLower(format) {
	case "html":
		return content.ToHTML()
	case "text":
		return content.ToText()
	case "markdown":
		return content.ToMarkdown()
	case "csv":
		return content.ToCSV()
	case "json":
		b, err := content.ToJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatFromExtension infers the output format from a file name.
func FormatFromExtension(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return "markdown"
	case strings.HasSuffix(lower, ".json"):
		return "json"
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return "html"
	case strings.HasSuffix(lower, ".txt"):
		return "text"
	case strings.HasSuffix(lower, ".csv"):
		return "csv"
	default:
		return ""
	}
}

var _ Content = (*Timetable)(nil)

// Timetable is the renderable view of one group's days.
type Timetable struct {
	Group string
	Days  []schedule.DayEntry
}

// NewTimetable renders the whole week of gs.
func NewTimetable(group string, gs schedule.GroupSchedule) *Timetable {
	return &Timetable{Group: group, Days: gs.Week()}
}
