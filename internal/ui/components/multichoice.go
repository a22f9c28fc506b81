package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/ui/theme"
)

var optionLabels = [...]string{"A", "B", "C", "D"}

// MultiChoice renders the four options of a question. It does not own
// the answer: screens feed it the engine state and read back the cursor.
type MultiChoice struct {
	Options []string
	Cursor  int
	// Chosen is the selected option, -1 when none.
	Chosen int
	// Correct is only shown when Revealed.
	Correct  int
	Revealed bool
}

// NewMultiChoice creates a component with the cursor on the first option.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, Chosen: -1, Correct: -1}
}

// OptionKey maps a key press to an option index: 1-4 or a-d.
func OptionKey(msg tea.KeyMsg) (int, bool) {
	k := strings.ToLower(msg.String())
	if len(k) != 1 {
		return 0, false
	}
	switch c := k[0]; {
	case c >= '1' && c <= '4':
		return int(c - '1'), true
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	}
	return 0, false
}

// MoveCursor handles up/down and reports whether the key was consumed.
func (m *MultiChoice) MoveCursor(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return true
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		return true
	}
	return false
}

// View renders the options in width columns.
func (m MultiChoice) View(width int) string {
	textWidth := max(width-8, 10)
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Revealed {
			prefix = "▸ "
		}
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		body := lipgloss.NewStyle().Width(textWidth).Render(opt)
		line := lipgloss.JoinHorizontal(lipgloss.Top, fmt.Sprintf("%s%s) ", prefix, label), body)

		b.WriteString(m.style(i).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m MultiChoice) style(i int) lipgloss.Style {
	switch {
	case m.Revealed && i == m.Correct:
		return theme.Correct
	case m.Revealed && i == m.Chosen:
		return theme.Incorrect
	case m.Revealed:
		return lipgloss.NewStyle().Foreground(theme.TextDim)
	case i == m.Chosen:
		return lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	case i == m.Cursor:
		return theme.Selected
	default:
		return theme.Unselected
	}
}
