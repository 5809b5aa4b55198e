package model

import (
	"math"
	"strings"
	"testing"
)

func TestCellSpans(t *testing.T) {
	tests := []struct {
		name             string
		cell             Cell
		wantRow, wantCol int
	}{
		{"unit", NewCell("a"), 1, 1},
		{"zero value", Cell{}, 1, 1},
		{"negative", Cell{RowSpan: -3, ColSpan: 0}, 1, 1},
		{"row span", NewCell("a").WithRowSpan(3), 3, 1},
		{"col span", NewCell("a").WithColSpan(4), 1, 4},
		{"at limits", NewCell("a").WithRowSpan(RowSpanLimit).WithColSpan(ColSpanLimit), RowSpanLimit, ColSpanLimit},
		{"row span over limit", NewCell("a").WithRowSpan(RowSpanLimit + 1), 1, 1},
		{"col span over limit", NewCell("a").WithColSpan(ColSpanLimit + 1), 1, 1},
		{"max int", Cell{RowSpan: math.MaxInt, ColSpan: math.MaxInt}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, cs := tt.cell.Spans()
			if rs != tt.wantRow || cs != tt.wantCol {
				t.Errorf("Spans() = (%d, %d), want (%d, %d)", rs, cs, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestWithSpanDoesNotMutate(t *testing.T) {
	c := NewCell("x")
	_ = c.WithColSpan(5)
	if c.ColSpan != 1 {
		t.Errorf("ColSpan = %d, want 1", c.ColSpan)
	}
}

func TestRowWidthAndMaxRowSpan(t *testing.T) {
	row := Row{Cells: []Cell{
		NewCell("a").WithColSpan(2),
		NewCell("b").WithRowSpan(3),
		{Text: "c"},
	}}

	if got := row.Width(); got != 4 {
		t.Errorf("Width() = %d, want 4", got)
	}
	if got := row.MaxRowSpan(); got != 3 {
		t.Errorf("MaxRowSpan() = %d, want 3", got)
	}

	huge := Row{Cells: []Cell{{ColSpan: math.MaxInt}, NewCell("b").WithColSpan(2)}}
	if got := huge.Width(); got != 3 {
		t.Errorf("Width() with oversized span = %d, want 3", got)
	}

	var empty Row
	if empty.Width() != 0 || empty.MaxRowSpan() != 0 {
		t.Errorf("empty row = (%d, %d), want (0, 0)", empty.Width(), empty.MaxRowSpan())
	}
}

func TestTableCounts(t *testing.T) {
	tbl := NewTable()
	if !tbl.IsEmpty() {
		t.Error("new table should be empty")
	}

	tbl.AddRow(NewCell("a"), NewCell("b"))
	tbl.AddRow()
	tbl.AddRow(NewCell("c"))

	if tbl.RowCount() != 3 {
		t.Errorf("RowCount() = %d, want 3", tbl.RowCount())
	}
	if tbl.CellCount() != 3 {
		t.Errorf("CellCount() = %d, want 3", tbl.CellCount())
	}
	if tbl.HasSpans() {
		t.Error("HasSpans() = true, want false")
	}

	tbl.AddRow(NewCell("d").WithRowSpan(2))
	if !tbl.HasSpans() {
		t.Error("HasSpans() = false, want true")
	}

	var nilTable *Table
	if !nilTable.IsEmpty() {
		t.Error("nil table should be empty")
	}
}

func TestTableGetText(t *testing.T) {
	tbl := NewTable()
	tbl.AddRow(NewCell("a"), NewCell("b"))
	tbl.AddRow(NewCell("c"))

	want := "a\tb\nc\n"
	if got := tbl.GetText(); got != want {
		t.Errorf("GetText() = %q, want %q", got, want)
	}
}

func TestTableToMarkdown(t *testing.T) {
	tbl := NewTable()
	tbl.AddRow(NewCell("Total").WithColSpan(2))
	tbl.AddRow(NewCell("a|b"), NewCell("c"))

	md := tbl.ToMarkdown()
	if !strings.Contains(md, "Total (1x2)") {
		t.Errorf("markdown missing span annotation, got: %s", md)
	}
	if !strings.Contains(md, "a\\|b") {
		t.Errorf("markdown missing escaped pipe, got: %s", md)
	}
	if !strings.Contains(md, "|---|---|") {
		t.Errorf("markdown missing separator, got: %s", md)
	}

	if got := NewTable().ToMarkdown(); got != "" {
		t.Errorf("empty table markdown = %q, want empty", got)
	}
}

func TestTableToCSV(t *testing.T) {
	tbl := NewTable()
	tbl.AddRow(NewCell("a,b"), NewCell(`say "hi"`), NewCell("plain"))

	want := "\"a,b\",\"say \"\"hi\"\"\",plain\n"
	if got := tbl.ToCSV(); got != want {
		t.Errorf("ToCSV() = %q, want %q", got, want)
	}
}
