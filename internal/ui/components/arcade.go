package components

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/ui/theme"
)

// ButtonWidth is the fixed width for menu buttons.
const ButtonWidth = 26

// ContentWidth returns the uniform inner width used for all framed sections.
// All boxes are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 72)
}

// CabinetFrame wraps content in a double-border frame, centering it
// vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 2).
		Render(content)
}

// Centered renders s centered in cw columns.
func Centered(s string, cw int) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

// Button renders a fixed-width menu button.
func Button(label string, selected, disabled bool) string {
	style := lipgloss.NewStyle().
		Width(ButtonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	switch {
	case disabled:
		return style.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	case selected:
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Highlight).
			BorderForeground(theme.Highlight).
			Render("▸ " + label)
	default:
		return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
}

// ButtonColumn stacks the buttons of m, centered in cw columns. Compact
// mode drops the borders for short terminals.
func ButtonColumn(m Menu, cw int, compact bool) string {
	lines := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		if compact {
			lines = append(lines, compactButton(item.Label, i == m.Selected, item.Disabled))
			continue
		}
		lines = append(lines, Button(item.Label, i == m.Selected, item.Disabled))
	}
	return Centered(strings.Join(lines, "\n"), cw)
}

func compactButton(label string, selected, disabled bool) string {
	switch {
	case disabled:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
	case selected:
		return lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.Highlight).
			Bold(true).
			Render(" ▸ " + label + " ")
	default:
		return lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
	}
}

// Banner renders a one-line notice in the given color.
func Banner(text string, cw int, fg color.Color) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(fg).Render(text)
}
