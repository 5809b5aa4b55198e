package grid

import "strings"

// Kind identifies what a grid position holds.
type Kind uint8

const (
	// Empty is an anchor without text, or a position no cell claimed.
	Empty Kind = iota
	// Content is an anchor carrying normalized text.
	Content
	// HorizontalContinuation is claimed by an anchor to its left.
	HorizontalContinuation
	// VerticalContinuation is claimed by an anchor above it.
	VerticalContinuation
	// CrossContinuation is claimed by an anchor above and to its left.
	CrossContinuation
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Content:
		return "Content"
	case HorizontalContinuation:
		return "HorizontalContinuation"
	case VerticalContinuation:
		return "VerticalContinuation"
	case CrossContinuation:
		return "CrossContinuation"
	default:
		return "Unknown"
	}
}

// IsContinuation reports whether the kind marks a position covered by a span.
func (k Kind) IsContinuation() bool {
	return k == HorizontalContinuation || k == VerticalContinuation || k == CrossContinuation
}

// Cell is a single grid position. Text is set only for Content.
type Cell struct {
	Kind Kind
	Text string
}

// Normalize trims surrounding whitespace and replaces each remaining space
// character with an underscore. Other whitespace characters are kept.
func Normalize(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), " ", "_")
}

// anchorCell returns the anchor marker for raw cell text.
func anchorCell(text string) Cell {
	if normalized := Normalize(text); normalized != "" {
		return Cell{Kind: Content, Text: normalized}
	}
	return Cell{Kind: Empty}
}
