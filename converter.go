package otsl

import (
	"io"

	"github.com/pkg/errors"

	"github.com/tsawler/otsl/grid"
	"github.com/tsawler/otsl/htmldoc"
	"github.com/tsawler/otsl/model"
	"github.com/tsawler/otsl/token"
)

// EmptyTable is the OTSL text for a document without a table.
const EmptyTable = token.EmptyTable

// Errors reported in strict mode.
var (
	ErrNoTable       = htmldoc.ErrNoTable
	ErrMalformedSpan = htmldoc.ErrMalformedSpan
)

// ErrTooLarge is returned in every mode for a table whose logical grid would
// exceed grid.MaxCells.
var ErrTooLarge = grid.ErrTooLarge

// Converter provides a fluent interface for converting HTML tables to OTSL.
// Each configuration method returns a new Converter, so a configured
// Converter can be shared and reused.
type Converter struct {
	// Source (exactly one is set)
	filename  string
	reader    io.Reader
	markup    string
	hasMarkup bool
	tables    []*model.Table
	hasTables bool

	// Configuration
	options ConvertOptions
}

// Result is the conversion of a single table.
type Result struct {
	// Index of the table in the document, or -1 when no table was found
	Index  int
	Table  *model.Table
	Grid   *grid.Grid
	Tokens []token.Token
	OTSL   string
}

// IsEmpty reports whether the result stands for a missing or row-less table.
func (r Result) IsEmpty() bool {
	return len(r.Tokens) == 0
}

// clone creates a shallow copy of the Converter with a copy of options.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename:  c.filename,
		reader:    c.reader,
		markup:    c.markup,
		hasMarkup: c.hasMarkup,
		tables:    c.tables,
		hasTables: c.hasTables,
		options:   c.options.clone(),
	}
}

// ============================================================================
// Configuration methods
// ============================================================================

// Strict reports a missing table as ErrNoTable and malformed span
// attributes as ErrMalformedSpan instead of degrading silently.
//
// Example:
//
//	seq, err := otsl.Open("table.html").Strict().Sequence()
func (c *Converter) Strict() *Converter {
	newConv := c.clone()
	newConv.options.strict = true
	return newConv
}

// Framed wraps non-empty output in <otsl> ... </otsl> so that every
// sequence has the same framing as the empty table.
func (c *Converter) Framed() *Converter {
	newConv := c.clone()
	newConv.options.framed = true
	return newConv
}

// AllTables converts every top-level table instead of only the first.
func (c *Converter) AllTables() *Converter {
	newConv := c.clone()
	newConv.options.allTables = true
	return newConv
}

// ============================================================================
// Terminal operations
// ============================================================================

// Results converts the first table, or every table when AllTables is set.
// Without a table the result is a single EmptyTable entry with Index -1,
// or ErrNoTable in strict mode.
func (c *Converter) Results() ([]Result, error) {
	tables, err := c.loadTables()
	if err != nil {
		return nil, err
	}

	if len(tables) == 0 {
		if c.options.strict {
			return nil, ErrNoTable
		}
		return []Result{{Index: -1, OTSL: EmptyTable}}, nil
	}

	if !c.options.allTables {
		tables = tables[:1]
	}

	results := make([]Result, 0, len(tables))
	for i, t := range tables {
		if err := grid.CheckSize(t); err != nil {
			return nil, errors.Wrapf(err, "table %d", i)
		}
		results = append(results, c.convert(i, t))
	}
	return results, nil
}

// Sequence returns the OTSL text of the first table.
//
// Example:
//
//	seq, err := otsl.FromString(markup).Sequence()
func (c *Converter) Sequence() (string, error) {
	results, err := c.Results()
	if err != nil {
		return "", err
	}
	return results[0].OTSL, nil
}

// Sequences returns the OTSL text of every table in document order.
func (c *Converter) Sequences() ([]string, error) {
	results, err := c.AllTables().Results()
	if err != nil {
		return nil, err
	}

	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.OTSL
	}
	return out, nil
}

// Grids returns the logical grid of each converted table. Results without
// a table are skipped.
func (c *Converter) Grids() ([]*grid.Grid, error) {
	results, err := c.Results()
	if err != nil {
		return nil, err
	}

	grids := make([]*grid.Grid, 0, len(results))
	for _, r := range results {
		if r.Grid != nil {
			grids = append(grids, r.Grid)
		}
	}
	return grids, nil
}

// convert runs the grid builder and encoder over one table.
func (c *Converter) convert(index int, t *model.Table) Result {
	g := grid.Build(t)
	tokens := token.Encode(g)

	text := token.Format(tokens)
	if c.options.framed {
		text = token.FormatFramed(tokens)
	}

	return Result{
		Index:  index,
		Table:  t,
		Grid:   g,
		Tokens: tokens,
		OTSL:   text,
	}
}

// loadTables parses the configured source.
func (c *Converter) loadTables() ([]*model.Table, error) {
	if c.hasTables {
		tables := make([]*model.Table, 0, len(c.tables))
		for _, t := range c.tables {
			if t != nil {
				tables = append(tables, t)
			}
		}
		return tables, nil
	}

	opts := htmldoc.ParseOptions{Strict: c.options.strict}

	var r *htmldoc.Reader
	var err error
	switch {
	case c.hasMarkup:
		r, err = htmldoc.OpenStringWithOptions(c.markup, opts)
	case c.reader != nil:
		r, err = htmldoc.OpenReaderWithOptions(c.reader, opts)
	case c.filename != "":
		r, err = htmldoc.OpenWithOptions(c.filename, opts)
	default:
		return nil, errors.New("no input specified")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading HTML")
	}
	defer r.Close()

	return r.Tables(), nil
}
