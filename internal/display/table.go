package display

import (
	"strings"
	"unicode/utf8"
)

// Table renders an aligned text table with optional color support.
// Widths are counted in runes so Turkish labels line up.
type Table struct {
	headers []string
	rows    [][]string
	// highlightRow is the 0-based row index to highlight (typically "today"). -1 = none.
	highlightRow int
	styles       map[int]func(string) string
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		highlightRow: -1,
		styles:       make(map[int]func(string) string),
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// StyleColumn applies style to every data cell of column col, except in the
// highlighted row.
func (t *Table) StyleColumn(col int, style func(string) string) {
	t.styles[col] = style
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder

	sb.WriteString("  " + Bold(formatRow(t.headers, widths, nil)) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	for i, row := range t.rows {
		if i == t.highlightRow {
			sb.WriteString("  " + Accent(formatRow(row, widths, nil)) + "\n")
		} else {
			sb.WriteString("  " + formatRow(row, widths, t.styles) + "\n")
		}
	}

	return sb.String()
}

// formatRow pads each cell to its column width, then applies any style.
// The last column is not padded.
func formatRow(cells []string, widths []int, styles map[int]func(string) string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i < len(widths)-1 {
			cell += strings.Repeat(" ", w-utf8.RuneCountInString(cell))
		}
		if style, ok := styles[i]; ok {
			cell = style(cell)
		}
		parts[i] = cell
	}
	return strings.Join(parts, "  ")
}
