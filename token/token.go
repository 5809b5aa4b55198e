package token

import (
	"strings"

	"github.com/tsawler/otsl/grid"
)

// Kind identifies an OTSL token.
type Kind uint8

const (
	ECEL Kind = iota
	FCEL
	LCEL
	UCEL
	XCEL
	NL
)

// Tag literals as they appear in OTSL text.
const (
	TagECEL = "<ecel>"
	TagFCEL = "<fcel>"
	TagLCEL = "<lcel>"
	TagUCEL = "<ucel>"
	TagXCEL = "<xcel>"
	TagNL   = "<nl>"

	TagOpen  = "<otsl>"
	TagClose = "</otsl>"
)

// EmptyTable is the text produced when no table is present.
const EmptyTable = TagOpen + " " + TagClose

var kindTags = [...]string{
	ECEL: TagECEL,
	FCEL: TagFCEL,
	LCEL: TagLCEL,
	UCEL: TagUCEL,
	XCEL: TagXCEL,
	NL:   TagNL,
}

// Tag returns the literal tag for the kind.
func (k Kind) Tag() string {
	if int(k) < len(kindTags) {
		return kindTags[k]
	}
	return ""
}

// String returns the tag name without brackets, e.g. "fcel".
func (k Kind) String() string {
	tag := k.Tag()
	if tag == "" {
		return "unknown"
	}
	return strings.Trim(tag, "<>")
}

// IsCell reports whether the kind stands for a grid position.
func (k Kind) IsCell() bool {
	return k <= XCEL
}

// Token is a single OTSL token. Text is only meaningful for FCEL.
type Token struct {
	Kind Kind
	Text string
}

// String renders the token as OTSL text.
func (t Token) String() string {
	if t.Kind == FCEL {
		return TagFCEL + " " + t.Text
	}
	return t.Kind.Tag()
}

// fromCell maps a grid marker to its token.
func fromCell(c grid.Cell) Token {
	switch c.Kind {
	case grid.Content:
		return Token{Kind: FCEL, Text: c.Text}
	case grid.HorizontalContinuation:
		return Token{Kind: LCEL}
	case grid.VerticalContinuation:
		return Token{Kind: UCEL}
	case grid.CrossContinuation:
		return Token{Kind: XCEL}
	default:
		return Token{Kind: ECEL}
	}
}
