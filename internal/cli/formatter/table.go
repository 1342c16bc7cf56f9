package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Grid is a table with optional cursor and selection markers.
type Grid struct {
	Headers []string
	Rows    [][]string

	// Cursor is the highlighted row; -1 for none.
	Cursor int
	// Marks prefixes every row with a checkbox when non-nil.
	Marks []bool
	// MarkedColumns highlights the header of selected columns.
	MarkedColumns []bool
	// ColumnCursor underlines one header; -1 for none.
	ColumnCursor int
	// MaxCell truncates long cells; zero means no limit.
	MaxCell int
}

// RenderTable renders an aligned table with a header rule.
func RenderTable(headers []string, rows [][]string) string {
	return Grid{Headers: headers, Rows: rows, Cursor: -1, ColumnCursor: -1}.Render()
}

// Render lays the grid out with every column as wide as its widest cell.
func (g Grid) Render() string {
	if len(g.Headers) == 0 {
		return ""
	}
	rows := g.Rows
	if g.MaxCell > 0 {
		rows = make([][]string, len(g.Rows))
		for i, row := range g.Rows {
			rows[i] = make([]string, len(row))
			for j, cell := range row {
				rows[i][j] = Truncate(cell, g.MaxCell)
			}
		}
	}

	labels := make([]string, len(g.Headers))
	widths := make([]int, len(g.Headers))
	for i, h := range g.Headers {
		if g.MarkedColumns != nil {
			if i < len(g.MarkedColumns) && g.MarkedColumns[i] {
				h = "✓" + h
			} else {
				h = " " + h
			}
		}
		labels[i] = h
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	gutter := ""
	if g.Marks != nil {
		gutter = "    "
	}

	var b strings.Builder
	b.WriteString(gutter)
	for i, h := range labels {
		style := StyleHeader
		if i < len(g.MarkedColumns) && g.MarkedColumns[i] {
			style = style.Foreground(ColorGreen)
		}
		if i == g.ColumnCursor {
			style = style.Underline(true)
		}
		writeCell(&b, style.Render(h), widths[i], i == len(g.Headers)-1)
	}
	b.WriteString("\n" + gutter)
	for i, w := range widths {
		writeCell(&b, StyleDim.Render(strings.Repeat("─", w)), w, i == len(widths)-1)
	}
	b.WriteString("\n")

	for r, row := range rows {
		var line strings.Builder
		if g.Marks != nil {
			if r < len(g.Marks) && g.Marks[r] {
				line.WriteString(StyleGreen.Render("[x]") + " ")
			} else {
				line.WriteString(StyleDim.Render("[ ]") + " ")
			}
		}
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(&line, cell, widths[i], i == len(widths)-1)
		}
		if r == g.Cursor {
			b.WriteString(StyleCursor.Render(line.String()))
		} else {
			b.WriteString(line.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeCell(b *strings.Builder, cell string, width int, last bool) {
	b.WriteString(cell)
	if last {
		return
	}
	pad := max(width-lipgloss.Width(cell), 0)
	b.WriteString(strings.Repeat(" ", pad+colGap))
}

// Truncate shortens s to n visible runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
