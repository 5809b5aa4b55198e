package token

import (
	"strings"

	"github.com/tsawler/otsl/grid"
)

// Encode emits one token per grid position in row-major order, with an NL
// token after every row.
func Encode(g *grid.Grid) []Token {
	if g == nil {
		return nil
	}

	tokens := make([]Token, 0, g.Rows()*(g.Cols()+1))
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			tokens = append(tokens, fromCell(g.At(r, c)))
		}
		tokens = append(tokens, Token{Kind: NL})
	}
	return tokens
}

// Format renders tokens as space separated OTSL text, trimmed. An empty
// token slice renders as EmptyTable.
func Format(tokens []Token) string {
	if len(tokens) == 0 {
		return EmptyTable
	}

	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(t.String())
	}
	return strings.TrimSpace(sb.String())
}

// FormatFramed renders tokens like Format but wraps non-empty output in
// <otsl> and </otsl>, matching the framing of EmptyTable.
func FormatFramed(tokens []Token) string {
	if len(tokens) == 0 {
		return EmptyTable
	}
	return TagOpen + " " + Format(tokens) + " " + TagClose
}

// EncodeString is shorthand for Format(Encode(g)).
func EncodeString(g *grid.Grid) string {
	return Format(Encode(g))
}

// CellCount returns the number of cell tokens, excluding NL.
func CellCount(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t.Kind.IsCell() {
			n++
		}
	}
	return n
}
