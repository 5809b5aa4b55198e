// Package model provides the source representation of a table as it appears
// in markup, before any grid layout has been computed.
//
// A [Table] is an ordered list of [Row] values and each row is an ordered
// list of [Cell] values in document order. Cells carry their raw text and
// the row and column spans declared by the markup. Nothing in this package
// resolves spans into positions; that is the job of the grid package.
//
// # Building tables
//
// Tables are usually produced by a markup reader such as htmldoc, but they
// can be assembled directly:
//
//	t := model.NewTable()
//	t.AddRow(model.NewCell("Total").WithColSpan(2))
//	t.AddRow(model.NewCell("a"), model.NewCell("b"))
//
// # Spans
//
// Span values below 1 are treated as 1 by [Cell.Spans]. Readers that want to
// report malformed spans must do so before building the table.
//
// # Export
//
// [Table.ToMarkdown] and [Table.ToCSV] render the physical rows as written,
// which is mainly useful for debugging span-heavy inputs.
package model
