package token

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/otsl/grid"
	"github.com/tsawler/otsl/model"
)

func cashFlowTable() *model.Table {
	rows := [][]string{
		{"", "2008", "2007", "2006"},
		{"Cash flows provided by (used for):", "", "", ""},
		{"Operating activities", "$455.7", "$381.5", "$267.5"},
		{"Investing activities", "(580.7)", "(380.5)", "(166.0)"},
		{"Financing activities", "299.4", "(24.5)", "(53.6)"},
		{"Net increase (decrease) in cash and cash equivalents", "174.4", "(23.5)", "47.9"},
		{"Cash and cash equivalents beginning of year", "55.5", "79.0", "31.1"},
		{"Cash and cash equivalents end of year", "$229.9", "$55.5", "$79.0"},
	}

	t := model.NewTable()
	for _, row := range rows {
		var cells []model.Cell
		for _, text := range row {
			cells = append(cells, model.NewCell(text))
		}
		t.AddRow(cells...)
	}
	return t
}

func TestEncode_CashFlow(t *testing.T) {
	g := grid.Build(cashFlowTable())
	out := EncodeString(g)

	wantPrefix := "<ecel> <fcel> 2008 <fcel> 2007 <fcel> 2006 <nl> " +
		"<fcel> Cash_flows_provided_by_(used_for): <ecel> <ecel> <ecel> <nl>"
	if !strings.HasPrefix(out, wantPrefix) {
		t.Errorf("output prefix mismatch\n got: %s\nwant: %s", out, wantPrefix)
	}

	wantSuffix := "<fcel> Cash_and_cash_equivalents_end_of_year <fcel> $229.9 <fcel> $55.5 <fcel> $79.0 <nl>"
	if !strings.HasSuffix(out, wantSuffix) {
		t.Errorf("output suffix mismatch\n got: %s\nwant: %s", out, wantSuffix)
	}

	if strings.Contains(out, "  ") {
		t.Errorf("output contains double spaces: %q", out)
	}
	if n := strings.Count(out, TagNL); n != 8 {
		t.Errorf("row terminators = %d, want 8", n)
	}
}

func TestEncode_MergedCell(t *testing.T) {
	tbl := model.NewTable()
	tbl.AddRow(model.NewCell("Total").WithColSpan(2))

	if got := EncodeString(grid.Build(tbl)); got != "<fcel> Total <lcel> <nl>" {
		t.Errorf("EncodeString() = %q, want %q", got, "<fcel> Total <lcel> <nl>")
	}
}

func TestEncode_AllKinds(t *testing.T) {
	tbl := model.NewTable()
	tbl.AddRow(model.NewCell("X").WithRowSpan(2).WithColSpan(2), model.NewCell(""))
	tbl.AddRow()

	want := "<fcel> X <lcel> <ecel> <nl> <ucel> <xcel> <ecel> <nl> <ecel> <ecel> <ecel> <nl>"
	if got := EncodeString(grid.Build(tbl)); got != want {
		t.Errorf("EncodeString() = %q, want %q", got, want)
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := EncodeString(grid.Build(model.NewTable())); got != EmptyTable {
		t.Errorf("EncodeString(empty) = %q, want %q", got, EmptyTable)
	}
	if got := Encode(nil); got != nil {
		t.Errorf("Encode(nil) = %v, want nil", got)
	}
	if EmptyTable != "<otsl> </otsl>" {
		t.Errorf("EmptyTable = %q", EmptyTable)
	}
}

func TestEncode_TokenCountInvariant(t *testing.T) {
	tables := []*model.Table{cashFlowTable()}

	spanned := model.NewTable()
	spanned.AddRow(model.NewCell("h").WithColSpan(3))
	spanned.AddRow(model.NewCell("a").WithRowSpan(3), model.NewCell("b").WithColSpan(2))
	spanned.AddRow(model.NewCell("c"), model.NewCell("d"))
	spanned.AddRow(model.NewCell("e").WithRowSpan(2).WithColSpan(2), model.NewCell("f"))
	tables = append(tables, spanned)

	for i, tbl := range tables {
		g := grid.Build(tbl)
		tokens := Encode(g)

		if got, want := CellCount(tokens), g.Rows()*g.Cols(); got != want {
			t.Errorf("table %d: cell tokens = %d, want %d", i, got, want)
		}

		parsed, err := Parse(Format(tokens))
		if err != nil {
			t.Fatalf("table %d: Parse() failed: %v", i, err)
		}
		rows, cols, err := Shape(parsed)
		if err != nil {
			t.Fatalf("table %d: Shape() failed: %v", i, err)
		}
		if rows != g.Rows() || cols != g.Cols() {
			t.Errorf("table %d: Shape() = (%d, %d), want (%d, %d)", i, rows, cols, g.Rows(), g.Cols())
		}
	}
}

func TestFormatFramed(t *testing.T) {
	tokens := []Token{{Kind: FCEL, Text: "a"}, {Kind: NL}}
	if got := FormatFramed(tokens); got != "<otsl> <fcel> a <nl> </otsl>" {
		t.Errorf("FormatFramed() = %q", got)
	}
	if got := FormatFramed(nil); got != EmptyTable {
		t.Errorf("FormatFramed(nil) = %q, want %q", got, EmptyTable)
	}
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind Kind
		tag  string
		name string
	}{
		{ECEL, "<ecel>", "ecel"},
		{FCEL, "<fcel>", "fcel"},
		{LCEL, "<lcel>", "lcel"},
		{UCEL, "<ucel>", "ucel"},
		{XCEL, "<xcel>", "xcel"},
		{NL, "<nl>", "nl"},
		{Kind(42), "", "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.Tag(); got != tt.tag {
			t.Errorf("Kind(%d).Tag() = %q, want %q", tt.kind, got, tt.tag)
		}
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.name)
		}
	}
	if NL.IsCell() {
		t.Error("NL.IsCell() = true")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []Token
		wantErr error
	}{
		{
			name: "plain",
			in:   "<fcel> a <lcel> <nl>",
			want: []Token{{Kind: FCEL, Text: "a"}, {Kind: LCEL}, {Kind: NL}},
		},
		{
			name: "framed",
			in:   "<otsl> <ecel> <nl> </otsl>",
			want: []Token{{Kind: ECEL}, {Kind: NL}},
		},
		{
			name: "empty table",
			in:   EmptyTable,
			want: []Token{},
		},
		{
			name: "multi-field content",
			in:   "<fcel> a\tb <nl>",
			want: []Token{{Kind: FCEL, Text: "a b"}, {Kind: NL}},
		},
		{name: "unknown tag", in: "<ecel> <td> <nl>", wantErr: ErrUnknownTag},
		{name: "missing content", in: "<fcel> <nl>", wantErr: ErrMissingContent},
		{name: "trailing fcel", in: "<ecel> <nl> <fcel>", wantErr: ErrMissingContent},
		// Format of a cell whose text is "<nl>" does not read back
		{name: "text equal to a tag", in: Format([]Token{{Kind: FCEL, Text: "<nl>"}, {Kind: NL}}), wantErr: ErrMissingContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestShape(t *testing.T) {
	tokens, err := Parse("<ecel> <ecel> <nl> <ecel> <nl>")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if _, _, err := Shape(tokens); !errors.Is(err, ErrRagged) {
		t.Errorf("Shape() error = %v, want ErrRagged", err)
	}

	tokens, _ = Parse("<ecel> <nl> <ecel>")
	if _, _, err := Shape(tokens); !errors.Is(err, ErrUnterminatedRow) {
		t.Errorf("Shape() error = %v, want ErrUnterminatedRow", err)
	}

	rows, cols, err := Shape(nil)
	if err != nil || rows != 0 || cols != 0 {
		t.Errorf("Shape(nil) = (%d, %d, %v), want (0, 0, nil)", rows, cols, err)
	}
}
