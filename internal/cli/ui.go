package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tsawler/otsl/grid"
	"github.com/tsawler/otsl/token"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleHeader       = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleContent      = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	styleContinuation = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Grid Rendering
// =============================================================================

// gridCellLabel is the text shown for one grid position: the content of
// anchor cells, the OTSL tag name otherwise.
func gridCellLabel(c grid.Cell) string {
	switch c.Kind {
	case grid.Content:
		return c.Text
	case grid.HorizontalContinuation:
		return token.LCEL.String()
	case grid.VerticalContinuation:
		return token.UCEL.String()
	case grid.CrossContinuation:
		return token.XCEL.String()
	default:
		return token.ECEL.String()
	}
}

// renderGrid draws g as a bordered table with column numbers as headers.
func renderGrid(g *grid.Grid) string {
	if g.Cols() == 0 {
		return StyleDim.Render("(no columns)")
	}

	headers := make([]string, g.Cols())
	for c := range headers {
		headers[c] = strconv.Itoa(c)
	}

	rows := make([][]string, g.Rows())
	for r := range rows {
		cells := g.Row(r)
		row := make([]string, len(cells))
		for c, cell := range cells {
			row[c] = gridCellLabel(cell)
		}
		rows[r] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if g.At(row, col).Kind == grid.Content {
				return styleContent
			}
			return styleContinuation
		})

	return t.String()
}
