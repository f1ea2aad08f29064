package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn describes one column of a rendered table.
type TableColumn struct {
	Header string
	Width  int
	Align  string // "left", "right", "center"
}

// Table collects rows for terminal rendering with aligned columns and
// alternating row shading.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []TableColumn) *Table {
	return &Table{Columns: columns}
}

// AddRow appends one row.
func (t *Table) AddRow(cells []string) {
	t.Rows = append(t.Rows, cells)
}

// Render produces the final string.
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col.Header)
		if col.Width > widths[i] {
			widths[i] = col.Width
		}
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	header := make([]string, len(t.Columns))
	sep := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = pad(col.Header, widths[i], "left")
		sep[i] = strings.Repeat("─", widths[i])
	}
	b.WriteString(StyleTableHeader.Render(strings.Join(header, "  ")))
	b.WriteString("\n")
	b.WriteString(StyleTableBorder.Render(strings.Join(sep, "  ")))
	b.WriteString("\n")

	for idx, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := t.Columns[i].Align
			if align == "" {
				align = "left"
			}
			cells[i] = pad(cell, widths[i], align)
		}
		var style lipgloss.Style
		if idx%2 == 0 {
			style = StyleTableRow
		} else {
			style = StyleTableRowAlt
		}
		b.WriteString(style.Render(strings.Join(cells, "  ")))
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int, align string) string {
	if len(s) >= width {
		return s
	}
	n := width - len(s)
	switch align {
	case "right":
		return strings.Repeat(" ", n) + s
	case "center":
		left := n / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", n-left)
	default:
		return s + strings.Repeat(" ", n)
	}
}

// Truncate shortens a string to max runes with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// RenderKeyValue renders one "key: value" detail line.
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", StyleAccent.Render(key), value)
}

// RenderSimpleList renders a bulleted list.
func RenderSimpleList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(StyleInfo.Render("  • "))
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}
