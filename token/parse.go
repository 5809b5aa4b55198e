package token

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownTag is returned when a tag-like field is not part of the vocabulary.
	ErrUnknownTag = errors.New("unknown OTSL tag")

	// ErrMissingContent is returned when <fcel> is not followed by text.
	ErrMissingContent = errors.New("fcel without content")

	// ErrUnterminatedRow is returned when cell tokens follow the last <nl>.
	ErrUnterminatedRow = errors.New("row not terminated by <nl>")

	// ErrRagged is returned when rows have different widths.
	ErrRagged = errors.New("rows have different widths")
)

var tagKinds = map[string]Kind{
	TagECEL: ECEL,
	TagFCEL: FCEL,
	TagLCEL: LCEL,
	TagUCEL: UCEL,
	TagXCEL: XCEL,
	TagNL:   NL,
}

// Parse reads OTSL text back into tokens. An optional <otsl> ... </otsl>
// frame is accepted. Content following <fcel> runs until the next tag; if
// it spans several whitespace separated fields they are joined by a single
// space.
//
// The text form is lossy. Tabs, newlines and repeated spaces in cell text
// come back as one space, and a cell whose text is exactly a tag such as
// "<nl>" is read as that tag. Callers holding the tokens should use them
// directly.
func Parse(s string) ([]Token, error) {
	fields := strings.Fields(s)
	if len(fields) > 0 && fields[0] == TagOpen {
		fields = fields[1:]
		if len(fields) > 0 && fields[len(fields)-1] == TagClose {
			fields = fields[:len(fields)-1]
		}
	}

	tokens := make([]Token, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		field := fields[i]
		kind, ok := tagKinds[field]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownTag, "field %d: %q", i, field)
		}

		if kind != FCEL {
			tokens = append(tokens, Token{Kind: kind})
			continue
		}

		j := i + 1
		for j < len(fields) && !isTag(fields[j]) {
			j++
		}
		if j == i+1 {
			return nil, errors.Wrapf(ErrMissingContent, "field %d", i)
		}
		tokens = append(tokens, Token{Kind: FCEL, Text: strings.Join(fields[i+1:j], " ")})
		i = j - 1
	}

	return tokens, nil
}

func isTag(field string) bool {
	if _, ok := tagKinds[field]; ok {
		return true
	}
	return field == TagOpen || field == TagClose
}

// Rows splits tokens into rows at each NL. The NL tokens are not included.
func Rows(tokens []Token) ([][]Token, error) {
	var rows [][]Token
	var current []Token

	for _, t := range tokens {
		if t.Kind == NL {
			rows = append(rows, current)
			current = nil
			continue
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		return nil, ErrUnterminatedRow
	}
	return rows, nil
}

// Shape returns the number of rows and columns described by tokens.
func Shape(tokens []Token) (rows, cols int, err error) {
	split, err := Rows(tokens)
	if err != nil {
		return 0, 0, err
	}
	for i, row := range split {
		if i == 0 {
			cols = len(row)
			continue
		}
		if len(row) != cols {
			return 0, 0, errors.Wrapf(ErrRagged, "row %d has %d cells, row 0 has %d", i, len(row), cols)
		}
	}
	return len(split), cols, nil
}
