package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette: tricolore on a dark background
var (
	Primary   = lipgloss.Color("#4F7CFF") // Bleu
	Secondary = lipgloss.Color("#93C5FD") // Light blue
	Accent    = lipgloss.Color("#EF4135") // Rouge
	Highlight = lipgloss.Color("#FACC15") // Gold, selected buttons
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0B1026") // Night blue
	BgCard    = lipgloss.Color("#17203D") // Card blue
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(Border)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// Hex parses a "#RRGGBB" string, as used by category colors.
func Hex(s string) color.Color {
	return lipgloss.Color(s)
}

// Ratio colors an accuracy: red below 50%, amber below 80%, green above.
func Ratio(r float64) color.Color {
	switch {
	case r >= 0.8:
		return Success
	case r >= 0.5:
		return Warning
	default:
		return Error
	}
}
