package htmldoc

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/tsawler/otsl/model"
)

// Reader provides access to the tables of an HTML document.
type Reader struct {
	doc    *html.Node
	title  string
	tables []*model.Table
	opts   ParseOptions
}

// Open opens an HTML file for reading.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultParseOptions())
}

// OpenWithOptions opens an HTML file with the given options.
func OpenWithOptions(filename string, opts ParseOptions) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	return OpenReaderWithOptions(f, opts)
}

// OpenReader parses HTML from an io.Reader. Input that is valid UTF-8 is
// read as UTF-8; anything else is decoded using the encoding named by a BOM
// or meta charset declaration, falling back to windows-1252.
func OpenReader(r io.Reader) (*Reader, error) {
	return OpenReaderWithOptions(r, DefaultParseOptions())
}

// OpenReaderWithOptions parses HTML from an io.Reader with the given options.
func OpenReaderWithOptions(r io.Reader, opts ParseOptions) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading HTML")
	}

	if utf8.Valid(data) {
		return parse(bytes.NewReader(data), opts)
	}

	enc, _, _ := charset.DetermineEncoding(data, "")
	return parse(enc.NewDecoder().Reader(bytes.NewReader(data)), opts)
}

// OpenString parses HTML held in a string, which is assumed to be UTF-8.
func OpenString(s string) (*Reader, error) {
	return OpenStringWithOptions(s, DefaultParseOptions())
}

// OpenStringWithOptions parses HTML held in a string with the given options.
func OpenStringWithOptions(s string, opts ParseOptions) (*Reader, error) {
	return parse(strings.NewReader(s), opts)
}

func parse(r io.Reader, opts ParseOptions) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML")
	}

	reader := &Reader{
		doc:    doc,
		tables: make([]*model.Table, 0),
		opts:   opts,
	}

	if title := findElement(doc, "title"); title != nil {
		reader.title = strings.TrimSpace(textContent(title))
	}

	if err := reader.collectTables(doc); err != nil {
		return nil, err
	}

	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// Title returns the document title, if any.
func (r *Reader) Title() string {
	return r.title
}

// Tables returns every top-level table in document order.
func (r *Reader) Tables() []*model.Table {
	return r.tables
}

// FirstTable returns the first table in the document, or ErrNoTable.
func (r *Reader) FirstTable() (*model.Table, error) {
	if len(r.tables) == 0 {
		return nil, ErrNoTable
	}
	return r.tables[0], nil
}

// collectTables walks the document and parses each table element. Tables
// inside a table are part of the outer table's cell text, not tables of
// their own.
func (r *Reader) collectTables(n *html.Node) error {
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return nil
		}
		if n.Data == "table" {
			table, err := r.parseTable(n, len(r.tables))
			if err != nil {
				return err
			}
			r.tables = append(r.tables, table)
			return nil
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := r.collectTables(c); err != nil {
			return err
		}
	}
	return nil
}

// parseTable extracts the rows of a table element.
func (r *Reader) parseTable(tableNode *html.Node, index int) (*model.Table, error) {
	table := model.NewTable()

	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "caption":
			table.Caption = strings.TrimSpace(textContent(c))
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					if err := r.appendRow(table, tr, c.Data == "thead", index); err != nil {
						return nil, err
					}
				}
			}
		case "tr":
			if err := r.appendRow(table, c, false, index); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

// appendRow parses a tr element. Rows without cells are kept.
func (r *Reader) appendRow(table *model.Table, tr *html.Node, inHead bool, tableIndex int) error {
	row := model.Row{Cells: make([]model.Cell, 0)}
	pos := cellPos{table: tableIndex, row: len(table.Rows)}

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}

		pos.cell = len(row.Cells)
		cell := model.Cell{
			Text:     cellText(c),
			IsHeader: inHead || c.Data == "th",
			RowSpan:  1,
			ColSpan:  1,
		}

		for _, attr := range c.Attr {
			var err error
			switch attr.Key {
			case "rowspan":
				cell.RowSpan, err = r.parseSpan(attr, pos)
			case "colspan":
				cell.ColSpan, err = r.parseSpan(attr, pos)
			}
			if err != nil {
				return err
			}
		}

		row.Cells = append(row.Cells, cell)
	}

	table.Rows = append(table.Rows, row)
	return nil
}

// parseSpan reads a span attribute. Values that are not integers between 1
// and the attribute's limit read as 1, or fail in strict mode.
func (r *Reader) parseSpan(attr html.Attribute, pos cellPos) (int, error) {
	limit := model.ColSpanLimit
	if attr.Key == "rowspan" {
		limit = model.RowSpanLimit
	}

	n, err := strconv.Atoi(strings.TrimSpace(attr.Val))
	if err == nil && model.ValidSpan(n, limit) {
		return n, nil
	}
	if r.opts.Strict {
		return 0, errors.Wrapf(ErrMalformedSpan, "table %d row %d cell %d: %s=%q",
			pos.table, pos.row, pos.cell, attr.Key, attr.Val)
	}
	return 1, nil
}

// shouldSkipElement returns true if the element never holds table content.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// cellText joins the descendant text nodes of a cell, each stripped of
// surrounding whitespace, with no separator.
func cellText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		case html.ElementNode:
			if shouldSkipElement(n.Data) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// textContent concatenates all descendant text unchanged.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
