// Package grid lays out a source table on a dense logical grid.
//
// Markup describes a table as physical rows of cells where a cell may span
// several rows and columns. [Build] resolves those spans into a rectangular
// R×C matrix of [Cell] markers:
//
//   - [Content] or [Empty] at the anchor, the top-left position of a source cell
//   - [HorizontalContinuation] to the right of an anchor on the same row
//   - [VerticalContinuation] below an anchor in the same column
//   - [CrossContinuation] below and to the right of an anchor
//
// Positions that no source cell claims stay [Empty].
//
// # Dimensions
//
// The column count is the widest row measured in column spans. The row count
// starts at the number of physical rows and grows by (max row span - 1) for
// every row containing a row span. That estimate is additive and can
// overshoot when spans from different rows overlap; the extra rows are
// emitted as empty rows. See [Dimensions].
//
// # Placement
//
// Rows are placed top to bottom with a row cursor. Before a physical row is
// placed, the cursor moves past every logical row in which any position is
// already claimed by an earlier row span. Cells are placed left to right,
// skipping claimed positions. Cells whose anchor falls outside the grid are
// dropped and counted by [Grid.Dropped]; spans are clipped at the grid edge.
package grid
