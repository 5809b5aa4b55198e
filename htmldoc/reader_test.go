package htmldoc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenReader_SimpleHTML(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head>
	<title>Cash Flows</title>
</head>
<body>
	<p>Intro</p>
	<table>
		<tr><td></td><td>2008</td><td>2007</td></tr>
		<tr><td>Operating activities</td><td>$455.7</td><td>$381.5</td></tr>
	</table>
</body>
</html>`

	r, err := OpenReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	defer r.Close()

	if r.Title() != "Cash Flows" {
		t.Errorf("Title() = %q, want 'Cash Flows'", r.Title())
	}

	table, err := r.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable() failed: %v", err)
	}
	if table.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", table.RowCount())
	}
	if len(table.Rows[0].Cells) != 3 {
		t.Errorf("row 0 has %d cells, want 3", len(table.Rows[0].Cells))
	}
	if table.Rows[0].Cells[0].Text != "" {
		t.Errorf("first cell = %q, want empty", table.Rows[0].Cells[0].Text)
	}
	if table.Rows[1].Cells[0].Text != "Operating activities" {
		t.Errorf("cell text = %q, want 'Operating activities'", table.Rows[1].Cells[0].Text)
	}
}

func TestOpenReader_InvalidHTML(t *testing.T) {
	// The HTML parser is lenient; unclosed cells still form a table
	r, err := OpenString(`<table><tr><td>a<td>b<tr><td>c`)
	if err != nil {
		t.Fatalf("OpenString() should handle malformed HTML: %v", err)
	}

	table, err := r.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable() failed: %v", err)
	}
	if table.RowCount() != 2 || len(table.Rows[0].Cells) != 2 {
		t.Errorf("table shape = %d rows / %d cells in row 0, want 2 / 2",
			table.RowCount(), len(table.Rows[0].Cells))
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("/nonexistent/file.html")
	if err == nil {
		t.Error("Open() expected error for nonexistent file")
	}
}

func TestOpen_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.html")
	if err := os.WriteFile(path, []byte("<html><body><table><tr><td>x</td></tr></table></body></html>"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	if len(r.Tables()) != 1 {
		t.Errorf("Tables() = %d, want 1", len(r.Tables()))
	}
}

func TestOpenReader_Charset(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`<html><head><meta charset="iso-8859-1"></head><body><table><tr><td>caf`)
	buf.WriteByte(0xE9)
	buf.WriteString(`</td></tr></table></body></html>`)

	r, err := OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}

	table, _ := r.FirstTable()
	if got := table.Rows[0].Cells[0].Text; got != "café" {
		t.Errorf("cell text = %q, want 'café'", got)
	}
}

func TestReader_Close(t *testing.T) {
	r, _ := OpenString(`<html><body></body></html>`)

	// Close should succeed
	if err := r.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	// Second close should be safe
	if err := r.Close(); err != nil {
		t.Errorf("Second Close() failed: %v", err)
	}
}

func TestFirstTable_NoTable(t *testing.T) {
	r, err := OpenString(`<html><body><p>No tables here</p><td>stray</td></body></html>`)
	if err != nil {
		t.Fatalf("OpenString() failed: %v", err)
	}

	if _, err := r.FirstTable(); !errors.Is(err, ErrNoTable) {
		t.Errorf("FirstTable() error = %v, want ErrNoTable", err)
	}
	if len(r.Tables()) != 0 {
		t.Errorf("Tables() = %d, want 0", len(r.Tables()))
	}
}

func TestParseTable_EmptyTable(t *testing.T) {
	r, _ := OpenString(`<table></table>`)

	table, err := r.FirstTable()
	if err != nil {
		t.Fatalf("FirstTable() failed: %v", err)
	}
	if !table.IsEmpty() {
		t.Errorf("RowCount() = %d, want 0", table.RowCount())
	}
}

func TestParseTable_Sections(t *testing.T) {
	r, _ := OpenString(`<table>
<caption> Quarterly results </caption>
<thead><tr><td>Year</td><th>Total</th></tr></thead>
<tbody><tr><td>2008</td><td>1</td></tr></tbody>
<tfoot><tr><th>Sum</th><td>1</td></tr></tfoot>
</table>`)

	table, _ := r.FirstTable()
	if table.Caption != "Quarterly results" {
		t.Errorf("Caption = %q, want 'Quarterly results'", table.Caption)
	}
	if table.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", table.RowCount())
	}

	head := table.Rows[0].Cells
	if !head[0].IsHeader || !head[1].IsHeader {
		t.Error("thead cells should be headers")
	}
	body := table.Rows[1].Cells
	if body[0].IsHeader {
		t.Error("tbody td should not be a header")
	}
	foot := table.Rows[2].Cells
	if !foot[0].IsHeader || foot[1].IsHeader {
		t.Error("tfoot th/td header flags wrong")
	}
	if foot[0].Text != "Sum" {
		t.Errorf("tfoot text = %q, want 'Sum'", foot[0].Text)
	}
}

func TestParseTable_EmptyRowsKept(t *testing.T) {
	r, _ := OpenString(`<table><tr></tr><tr><td>a</td></tr><tr> </tr></table>`)

	table, _ := r.FirstTable()
	if table.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", table.RowCount())
	}
	if len(table.Rows[0].Cells) != 0 || len(table.Rows[2].Cells) != 0 {
		t.Error("empty rows should have no cells")
	}
}

func TestParseTable_CellText(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{"plain", `<td>2008</td>`, "2008"},
		{"inner spaces kept", `<td>  Net increase (decrease)  </td>`, "Net increase (decrease)"},
		{"fragments joined without separator", `<td> Net <b>increase</b> </td>`, "Netincrease"},
		{"line breaks", "<td>a<br>b</td>", "ab"},
		{"script skipped", `<td>x<script>var y = 1;</script></td>`, "x"},
		{"comment skipped", `<td>x<!-- note --></td>`, "x"},
		{"entities", `<td>A &amp; B</td>`, "A & B"},
		{"empty", `<td>   </td>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := OpenString("<table><tr>" + tt.cell + "</tr></table>")
			if err != nil {
				t.Fatalf("OpenString() failed: %v", err)
			}
			table, _ := r.FirstTable()
			if got := table.Rows[0].Cells[0].Text; got != tt.want {
				t.Errorf("cell text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTable_Spans(t *testing.T) {
	r, _ := OpenString(`<table>
<tr><td colspan="2">Merged</td></tr>
<tr><td rowspan=" 3 ">Tall</td><td>B</td></tr>
</table>`)

	table, _ := r.FirstTable()

	if table.Rows[0].Cells[0].ColSpan != 2 {
		t.Errorf("ColSpan = %d, want 2", table.Rows[0].Cells[0].ColSpan)
	}
	if table.Rows[0].Cells[0].RowSpan != 1 {
		t.Errorf("RowSpan = %d, want 1", table.Rows[0].Cells[0].RowSpan)
	}
	if table.Rows[1].Cells[0].RowSpan != 3 {
		t.Errorf("RowSpan = %d, want 3", table.Rows[1].Cells[0].RowSpan)
	}
}

func TestParseTable_MalformedSpans(t *testing.T) {
	markup := `<table><tr><td colspan="abc">a</td><td rowspan="0">b</td><td colspan="-2">c</td></tr></table>`

	r, err := OpenString(markup)
	if err != nil {
		t.Fatalf("lenient parse failed: %v", err)
	}
	table, _ := r.FirstTable()
	for i, cell := range table.Rows[0].Cells {
		if cell.RowSpan != 1 || cell.ColSpan != 1 {
			t.Errorf("cell %d spans = (%d, %d), want (1, 1)", i, cell.RowSpan, cell.ColSpan)
		}
	}

	_, err = OpenStringWithOptions(markup, ParseOptions{Strict: true})
	if !errors.Is(err, ErrMalformedSpan) {
		t.Fatalf("strict parse error = %v, want ErrMalformedSpan", err)
	}
	if !strings.Contains(err.Error(), `colspan="abc"`) {
		t.Errorf("error should name the attribute, got: %v", err)
	}
}

func TestParseTable_OversizedSpans(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		wantRow int
		wantCol int
	}{
		{"colspan at limit", `colspan="1000"`, 1, 1000},
		{"colspan over limit", `colspan="1001"`, 1, 1},
		{"rowspan at limit", `rowspan="65534"`, 65534, 1},
		{"rowspan over limit", `rowspan="65535"`, 1, 1},
		{"rowspan max int", `rowspan="9223372036854775807"`, 1, 1},
		{"colspan overflows int", `colspan="99999999999999999999"`, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := `<table><tr><td ` + tt.attr + `>a</td></tr></table>`

			r, err := OpenString(markup)
			if err != nil {
				t.Fatalf("lenient parse failed: %v", err)
			}
			table, _ := r.FirstTable()
			cell := table.Rows[0].Cells[0]
			if cell.RowSpan != tt.wantRow || cell.ColSpan != tt.wantCol {
				t.Errorf("spans = (%d, %d), want (%d, %d)", cell.RowSpan, cell.ColSpan, tt.wantRow, tt.wantCol)
			}

			_, err = OpenStringWithOptions(markup, ParseOptions{Strict: true})
			wantErr := tt.wantRow == 1 && tt.wantCol == 1
			if got := errors.Is(err, ErrMalformedSpan); got != wantErr {
				t.Errorf("strict error = %v, want ErrMalformedSpan: %v", err, wantErr)
			}
		})
	}
}

func TestParseTable_MultipleAndNested(t *testing.T) {
	r, _ := OpenString(`<body>
<table><tr><td>outer<table><tr><td>inner</td></tr><tr><td>more</td></tr></table></td><td>b</td></tr></table>
<div><table><tr><td>second</td></tr></table></div>
</body>`)

	tables := r.Tables()
	if len(tables) != 2 {
		t.Fatalf("Tables() = %d, want 2", len(tables))
	}

	outer := tables[0]
	if outer.RowCount() != 1 {
		t.Errorf("outer RowCount() = %d, want 1 (nested rows excluded)", outer.RowCount())
	}
	if got := outer.Rows[0].Cells[0].Text; got != "outerinnermore" {
		t.Errorf("outer cell text = %q, want 'outerinnermore'", got)
	}
	if got := tables[1].Rows[0].Cells[0].Text; got != "second" {
		t.Errorf("second table text = %q, want 'second'", got)
	}
}
