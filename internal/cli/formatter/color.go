// Package formatter renders CLI output: colors, tables and small layout
// helpers built on lipgloss. Styling degrades to plain text when stdout is
// not a terminal.
package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func style(c lipgloss.Color, bold bool) lipgloss.Style {
	if !colorEnabled {
		return lipgloss.NewStyle()
	}
	s := lipgloss.NewStyle().Foreground(c)
	if bold {
		s = s.Bold(true)
	}
	return s
}

var (
	StyleGreen  = style(ColorGreen, false)
	StyleYellow = style(ColorYellow, false)
	StyleRed    = style(ColorRed, false)
	StyleBlue   = style(ColorBlue, false)
	StyleDim    = style(ColorDim, false)
	StyleFg     = style(ColorFg, false)
	StyleHeader = style(ColorHeader, true)
	StyleBold   = style(ColorFg, true)
)

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
