package model

import (
	"strconv"
	"strings"
)

// Table represents a table as an ordered sequence of rows in document order.
type Table struct {
	Rows    []Row
	Caption string
}

// Row is an ordered sequence of cells.
type Row struct {
	Cells []Cell
}

// Cell represents a single source cell.
type Cell struct {
	Text     string
	RowSpan  int
	ColSpan  int
	IsHeader bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{Rows: make([]Row, 0)}
}

// NewCell creates a cell with the given text and unit spans.
func NewCell(text string) Cell {
	return Cell{Text: text, RowSpan: 1, ColSpan: 1}
}

// WithRowSpan returns a copy of the cell spanning n rows.
func (c Cell) WithRowSpan(n int) Cell {
	c.RowSpan = n
	return c
}

// WithColSpan returns a copy of the cell spanning n columns.
func (c Cell) WithColSpan(n int) Cell {
	c.ColSpan = n
	return c
}

// Span limits, as in the HTML table model.
const (
	ColSpanLimit = 1000
	RowSpanLimit = 65534
)

// ValidSpan reports whether n is a usable span for an attribute with the
// given limit.
func ValidSpan(n, limit int) bool {
	return n >= 1 && n <= limit
}

// Spans returns the effective row and column spans. Values below 1 or above
// RowSpanLimit / ColSpanLimit read as 1.
func (c Cell) Spans() (rowSpan, colSpan int) {
	rowSpan, colSpan = c.RowSpan, c.ColSpan
	if !ValidSpan(rowSpan, RowSpanLimit) {
		rowSpan = 1
	}
	if !ValidSpan(colSpan, ColSpanLimit) {
		colSpan = 1
	}
	return rowSpan, colSpan
}

// AddRow appends a row built from the given cells.
func (t *Table) AddRow(cells ...Cell) {
	row := Row{Cells: make([]Cell, len(cells))}
	copy(row.Cells, cells)
	t.Rows = append(t.Rows, row)
}

// RowCount returns the number of physical rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// CellCount returns the total number of source cells.
func (t *Table) CellCount() int {
	n := 0
	for _, row := range t.Rows {
		n += len(row.Cells)
	}
	return n
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// Width returns the sum of the effective column spans of the row.
func (r Row) Width() int {
	w := 0
	for _, cell := range r.Cells {
		_, cs := cell.Spans()
		w += cs
	}
	return w
}

// MaxRowSpan returns the largest effective row span in the row, or 0 for a
// row without cells.
func (r Row) MaxRowSpan() int {
	best := 0
	for _, cell := range r.Cells {
		if rs, _ := cell.Spans(); rs > best {
			best = rs
		}
	}
	return best
}

// HasSpans reports whether any cell spans more than one row or column.
func (t *Table) HasSpans() bool {
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if rs, cs := cell.Spans(); rs > 1 || cs > 1 {
				return true
			}
		}
	}
	return false
}

// GetText returns the cell text tab-separated, one physical row per line.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row.Cells {
			sb.WriteString(cell.Text)
			if j < len(row.Cells)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the physical rows to a markdown table. Spans are
// shown as annotations after the cell text.
func (t *Table) ToMarkdown() string {
	if t.IsEmpty() {
		return ""
	}

	width := 0
	for _, row := range t.Rows {
		if n := len(row.Cells); n > width {
			width = n
		}
	}
	if width == 0 {
		return ""
	}

	var sb strings.Builder
	for i, row := range t.Rows {
		sb.WriteString("|")
		for j := 0; j < width; j++ {
			sb.WriteString(" ")
			if j < len(row.Cells) {
				sb.WriteString(markdownCell(row.Cells[j]))
			}
			sb.WriteString(" |")
		}
		sb.WriteString("\n")

		// Separator after the first row
		if i == 0 {
			sb.WriteString("|")
			for j := 0; j < width; j++ {
				sb.WriteString("---|")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func markdownCell(c Cell) string {
	text := strings.ReplaceAll(c.Text, "\n", " ")
	text = strings.ReplaceAll(text, "|", "\\|")
	rs, cs := c.Spans()
	if rs > 1 || cs > 1 {
		text += " (" + strconv.Itoa(rs) + "x" + strconv.Itoa(cs) + ")"
	}
	return text
}

// ToCSV converts the physical rows to CSV format.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row.Cells {
			// Escape quotes and wrap in quotes if necessary
			text := cell.Text
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row.Cells)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
