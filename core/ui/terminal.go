// Package ui renders analysis results as terminal tables.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorTitle   = lipgloss.Color("#06B6D4")
	colorWarning = lipgloss.Color("#F59E0B")
)

// Writer is the UI output destination
type Writer struct {
	out     io.Writer
	noColor bool

	titleStyle   lipgloss.Style
	headStyle    lipgloss.Style
	warningStyle lipgloss.Style
}

// NewWriter creates a UI writer. Colors are dropped when noColor is set or
// out is not a terminal.
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	r := lipgloss.NewRenderer(out)
	return &Writer{
		out:          out,
		noColor:      noColor,
		titleStyle:   r.NewStyle().Bold(true).Foreground(colorTitle),
		headStyle:    r.NewStyle().Bold(true),
		warningStyle: r.NewStyle().Foreground(colorWarning),
	}
}

func (w *Writer) color(style lipgloss.Style, text string) string {
	if w.noColor {
		return text
	}
	return style.Render(text)
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes formatted text and a newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("")
	w.Println("%s", w.color(w.titleStyle, "━━━ "+title+" ━━━"))
	w.Println("")
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Println("%s%s", w.color(w.warningStyle, "⚠ "), fmt.Sprintf(format, args...))
}

// Table renders aligned columns
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{w: w, headers: headers, widths: widths}
}

// AddRow adds a row, padding or truncating it to the header count
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if len(row[i]) > t.widths[i] {
			t.widths[i] = len(row[i])
		}
	}
	t.rows = append(t.rows, row)
}

// Render prints the table
func (t *Table) Render() {
	var format strings.Builder
	for i, width := range t.widths {
		if i > 0 {
			format.WriteString(" │ ")
		}
		fmt.Fprintf(&format, "%%-%ds", width)
	}

	t.w.Println("%s", t.w.color(t.w.headStyle, fmt.Sprintf(format.String(), toArgs(t.headers)...)))

	sep := make([]string, len(t.widths))
	for i, width := range t.widths {
		sep[i] = strings.Repeat("─", width)
	}
	t.w.Println("%s", strings.Join(sep, "─┼─"))

	for _, row := range t.rows {
		t.w.Println(format.String(), toArgs(row)...)
	}
}

func toArgs(cells []string) []interface{} {
	args := make([]interface{}, len(cells))
	for i, c := range cells {
		args[i] = c
	}
	return args
}
