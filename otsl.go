// Package otsl converts HTML tables to OTSL (Optimal Table Structure
// Language) token sequences for table structure recognition datasets.
//
// Basic usage:
//
//	seq, err := otsl.Open("table.html").Sequence()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	seqs, err := otsl.FromString(markup).
//	    Strict().
//	    Framed().
//	    Sequences()
//
// A document without a table converts to "<otsl> </otsl>". Non-empty output
// carries no <otsl> wrapper unless Framed is set.
//
// The grid, token and htmldoc packages expose the individual stages for
// callers who need more control.
package otsl

import (
	"io"

	"github.com/tsawler/otsl/model"
)

// Open returns a Converter reading HTML from the named file.
//
// Example:
//
//	seq, err := otsl.Open("table.html").Sequence()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns a Converter reading HTML from r. The reader is
// consumed by the first terminal operation.
func FromReader(r io.Reader) *Converter {
	return &Converter{
		reader:  r,
		options: defaultOptions(),
	}
}

// FromString returns a Converter over an HTML string.
//
// Example:
//
//	seq, err := otsl.FromString("<table><tr><td>a</td></tr></table>").Sequence()
func FromString(markup string) *Converter {
	return &Converter{
		markup:    markup,
		hasMarkup: true,
		options:   defaultOptions(),
	}
}

// FromTable returns a Converter over an already parsed table.
func FromTable(t *model.Table) *Converter {
	return &Converter{
		tables:    []*model.Table{t},
		hasTables: true,
		options:   defaultOptions(),
	}
}

// Convert converts the first table in markup to OTSL text, returning
// "<otsl> </otsl>" when there is no table. It never fails.
//
// Example:
//
//	otsl.Convert("<table><tr><td colspan=2>Total</td></tr></table>")
//	// "<fcel> Total <lcel> <nl>"
func Convert(markup string) string {
	seq, err := FromString(markup).Sequence()
	if err != nil {
		return EmptyTable
	}
	return seq
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	seq := otsl.Must(otsl.Open("table.html").Sequence())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
