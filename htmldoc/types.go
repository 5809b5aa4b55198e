// Package htmldoc locates tables in HTML documents and converts them to
// model tables.
package htmldoc

import (
	"github.com/pkg/errors"
)

var (
	// ErrNoTable is returned when a document contains no table element.
	ErrNoTable = errors.New("no table found")

	// ErrMalformedSpan is returned in strict mode when a rowspan or colspan
	// attribute is not a positive integer.
	ErrMalformedSpan = errors.New("malformed span attribute")
)

// ParseOptions controls how markup is turned into tables.
type ParseOptions struct {
	// Strict reports malformed span attributes as ErrMalformedSpan instead
	// of reading them as 1.
	Strict bool
}

// DefaultParseOptions returns the lenient defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Strict: false}
}

// cellPos identifies a cell while parsing, for error messages.
type cellPos struct {
	table int
	row   int
	cell  int
}
