package template

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"
)

//go:embed graph.svg.tmpl
var graphSVG string

// add sums two coordinates.
// helper function for svg template
func add(a, b float64) float64 {
	return a + b
}

// coord prints a coordinate with one decimal.
// helper function for svg template
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ordinalDate returns a string with the ordinal number of the day
// helper function for svg template
func ordinalDate(day int) string {
	suffix := "th"
	switch day {
	case 1, 21, 31:
		suffix = "st"
	case 2, 22:
		suffix = "nd"
	case 3, 23:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// formatDateTime formats a time.Time object into the specified string format.
// helper function for svg template
func formatDateTime(t time.Time) string {
	day := ordinalDate(t.Day())
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%s %s %d %d:%02d:%02d %s", day, t.Month(), t.Year(), hour, t.Minute(), t.Second(), t.Format("pm"))
}

// NewGraphTemplate parses the built-in SVG template. A non-empty
// templateFile replaces it.
func NewGraphTemplate(templateFile string) (*template.Template, error) {
	t := template.New("graph.svg").
		Funcs(template.FuncMap{
			"add":            add,
			"coord":          coord,
			"formatDateTime": formatDateTime,
		})
	text := graphSVG
	if templateFile != "" {
		content, err := os.ReadFile(templateFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %q: %w", templateFile, err)
		}
		text = string(content)
	}
	return t.Parse(text)
}
