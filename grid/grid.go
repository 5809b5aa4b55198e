package grid

import (
	"github.com/pkg/errors"

	"github.com/tsawler/otsl/model"
)

// MaxCells bounds the number of positions in a grid.
const MaxCells = 1 << 22

// ErrTooLarge is returned by CheckSize for tables whose logical grid would
// exceed MaxCells.
var ErrTooLarge = errors.New("table grid too large")

// Grid is a dense row-major matrix of cells produced by Build.
// A Grid is read-only once returned.
type Grid struct {
	rows    int
	cols    int
	cells   []Cell
	anchors []Anchor
	dropped []SourceRef
}

// SourceRef identifies a cell in the source table by physical row index and
// index within that row.
type SourceRef struct {
	Row  int
	Cell int
}

// Anchor records where a source cell was placed and the spans it declared.
// Spans are reported before clipping at the grid edge.
type Anchor struct {
	Source  SourceRef
	Row     int
	Col     int
	RowSpan int
	ColSpan int
}

// Dimensions returns the logical row and column counts for a table.
//
// The column count is the widest row in column spans. The row count is the
// physical row count plus (max row span - 1) for each row that has one.
func Dimensions(t *model.Table) (rows, cols int) {
	if t == nil {
		return 0, 0
	}

	rows = len(t.Rows)
	for _, row := range t.Rows {
		if w := row.Width(); w > cols {
			cols = w
		}
		if span := row.MaxRowSpan(); span > 1 {
			rows += span - 1
		}
	}
	return rows, cols
}

// CheckSize reports ErrTooLarge when the grid for t would hold more than
// MaxCells positions.
func CheckSize(t *model.Table) error {
	rows, cols := Dimensions(t)
	if !fits(rows, cols) {
		return errors.Wrapf(ErrTooLarge, "%d x %d exceeds %d cells", rows, cols, MaxCells)
	}
	return nil
}

func fits(rows, cols int) bool {
	return rows == 0 || cols == 0 || cols <= MaxCells/rows
}

// Build lays out t on a logical grid. A nil or row-less table yields an
// empty 0x0 grid. A table that fails CheckSize also yields a 0x0 grid, with
// every source cell reported as dropped.
func Build(t *model.Table) *Grid {
	rows, cols := Dimensions(t)
	if !fits(rows, cols) {
		g := newGrid(0, 0)
		for i, row := range t.Rows {
			for j := range row.Cells {
				g.dropped = append(g.dropped, SourceRef{Row: i, Cell: j})
			}
		}
		return g
	}

	g := newGrid(rows, cols)
	if t == nil {
		return g
	}

	occ := newOccupancy(rows, cols)
	rowIdx := 0

	for i, row := range t.Rows {
		// Skip every logical row already touched by an earlier row span
		for rowIdx < rows && occ.rowTouched(rowIdx) {
			rowIdx++
		}

		colIdx := 0
		for j, cell := range row.Cells {
			for rowIdx < rows && colIdx < cols && occ.isClaimed(rowIdx, colIdx) {
				colIdx++
			}

			rowSpan, colSpan := cell.Spans()
			ref := SourceRef{Row: i, Cell: j}

			if rowIdx >= rows || colIdx >= cols {
				g.dropped = append(g.dropped, ref)
				continue
			}

			g.place(occ, rowIdx, colIdx, rowSpan, colSpan, cell.Text)
			g.anchors = append(g.anchors, Anchor{
				Source:  ref,
				Row:     rowIdx,
				Col:     colIdx,
				RowSpan: rowSpan,
				ColSpan: colSpan,
			})

			colIdx += colSpan
		}

		rowIdx++
	}

	return g
}

// place writes the anchor and its continuation markers, then claims the
// spanned rectangle. Positions beyond the grid edge are ignored.
func (g *Grid) place(occ *occupancy, row, col, rowSpan, colSpan int, text string) {
	g.set(row, col, anchorCell(text))

	for c := 1; c < colSpan; c++ {
		if col+c < g.cols {
			g.set(row, col+c, Cell{Kind: HorizontalContinuation})
		}
	}

	for r := 1; r < rowSpan; r++ {
		if row+r >= g.rows {
			continue
		}
		g.set(row+r, col, Cell{Kind: VerticalContinuation})
		for c := 1; c < colSpan; c++ {
			if col+c < g.cols {
				g.set(row+r, col+c, Cell{Kind: CrossContinuation})
			}
		}
	}

	for r := 0; r < rowSpan; r++ {
		for c := 0; c < colSpan; c++ {
			if row+r < g.rows && col+c < g.cols {
				occ.claim(row+r, col+c)
			}
		}
	}
}

func newGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

func (g *Grid) set(r, c int, cell Cell) {
	g.cells[r*g.cols+c] = cell
}

// Rows returns the number of logical rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of logical columns.
func (g *Grid) Cols() int { return g.cols }

// IsEmpty reports whether the grid has no rows.
func (g *Grid) IsEmpty() bool { return g.rows == 0 }

// At returns the cell at row r, column c. Out-of-range positions return an
// Empty cell.
func (g *Grid) At(r, c int) Cell {
	if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
		return Cell{}
	}
	return g.cells[r*g.cols+c]
}

// Row returns a copy of logical row r, or nil if r is out of range.
func (g *Grid) Row(r int) []Cell {
	if r < 0 || r >= g.rows {
		return nil
	}
	row := make([]Cell, g.cols)
	copy(row, g.cells[r*g.cols:(r+1)*g.cols])
	return row
}

// Anchors returns the placed source cells in placement order.
func (g *Grid) Anchors() []Anchor {
	return append([]Anchor(nil), g.anchors...)
}

// Dropped returns the source cells that fell outside the grid.
func (g *Grid) Dropped() []SourceRef {
	return append([]SourceRef(nil), g.dropped...)
}

// Count returns the number of positions holding the given kind.
func (g *Grid) Count(kind Kind) int {
	n := 0
	for _, cell := range g.cells {
		if cell.Kind == kind {
			n++
		}
	}
	return n
}
