// Package token encodes a logical grid as an OTSL token stream.
//
// OTSL (Optimal Table Structure Language) describes a table with five cell
// tokens and a row terminator:
//
//	<fcel> text   anchor with content
//	<ecel>        anchor without content, or unclaimed position
//	<lcel>        continuation of the cell to the left
//	<ucel>        continuation of the cell above
//	<xcel>        continuation of the cell above and to the left
//	<nl>          end of row
//
// [Encode] walks a grid row by row and [Format] renders the tokens as the
// space separated text used in training data:
//
//	<fcel> Total <lcel> <nl> <fcel> a <fcel> b <nl>
//
// A table that could not be found is rendered as [EmptyTable]. The
// non-empty form carries no <otsl> wrapper unless [FormatFramed] is used.
//
// [Parse] reads such text back into tokens, which is useful for checking
// the shape of generated sequences.
package token
