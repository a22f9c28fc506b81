package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/i18n"
	"github.com/examencivique/examencivique/internal/progress"
	"github.com/examencivique/examencivique/internal/ui/theme"
)

// renderTitle returns the title with a tricolore rule under it.
func renderTitle(name string, cw int, compact bool) string {
	title := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(strings.ToUpper(name))

	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if compact {
		return center.Render(title)
	}

	third := 6
	rule := lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Repeat("━", third)) +
		lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Repeat("━", third)) +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Repeat("━", third))
	return center.Render(title + "\n" + rule)
}

func renderTagline(text string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Italic(true).
		Render(text)
}

// renderStatsBar renders the headline stats in a double-bordered box.
func renderStatsBar(o progress.Overview, s *i18n.Strings, cw int, compact bool) string {
	accStyle := lipgloss.NewStyle().Foreground(theme.Ratio(o.Accuracy)).Bold(true)
	masteredStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	passedStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)

	acc := int(o.Accuracy * 100)
	var stats string
	if compact {
		stats = fmt.Sprintf("%s  %s  %s",
			accStyle.Render(fmt.Sprintf("%d%%", acc)),
			masteredStyle.Render(fmt.Sprintf("★%d", o.Mastered)),
			passedStyle.Render(fmt.Sprintf("✓%d", o.ExamsPassed)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			accStyle.Render(fmt.Sprintf("%d%% %s", acc, s.StatAccuracy)),
			masteredStyle.Render(fmt.Sprintf("★ %d %s", o.Mastered, s.StatMastered)),
			passedStyle.Render(fmt.Sprintf("✓ %d %s", o.ExamsPassed, s.StatPassed)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + text)
}
