package formatter

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
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

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// Dim renders s in the dim style.
func Dim(s string) string {
	return StyleDim.Render(s)
}

// Gap renders a budget gap percentage: green under budget, red over,
// dimmed when no estimate exists. Rounding to one decimal happens here
// and nowhere earlier.
func Gap(pct *float64) string {
	if pct == nil {
		return StyleDim.Render("–")
	}
	s := fmt.Sprintf("%+.1f%%", *pct)
	if *pct < 0 {
		return StyleRed.Render(s)
	}
	return StyleGreen.Render(s)
}

// Days formats a day quantity with one decimal.
func Days(d float64) string {
	return fmt.Sprintf("%.1fd", d)
}
