// Package studycard shows one question at a time with instant feedback.
package studycard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/study"
	"github.com/examencivique/examencivique/internal/ui/components"
	"github.com/examencivique/examencivique/internal/ui/layout"
	"github.com/examencivique/examencivique/internal/ui/theme"
)

// StudyCardScreen drives the study engine started by the study menu.
type StudyCardScreen struct {
	deps   *screen.Deps
	cursor int
	// shown is the question index the cursor belongs to.
	shown int
}

var _ screen.Screen = (*StudyCardScreen)(nil)
var _ screen.KeyHintProvider = (*StudyCardScreen)(nil)

// New creates the card screen over the current study session.
func New(deps *screen.Deps) *StudyCardScreen {
	return &StudyCardScreen{deps: deps, shown: -1}
}

func (s *StudyCardScreen) Init() tea.Cmd {
	return nil
}

func (s *StudyCardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	eng := s.deps.Study
	st := eng.State()

	switch st.Status {
	case study.Empty:
		if key.String() == "enter" {
			return s, router.Pop
		}
		return s, nil
	case study.SessionFinished:
		switch key.String() {
		case "r":
			if err := eng.Reset(); err != nil {
				return s, nil
			}
			s.shown = -1
		case "enter":
			return s, router.Pop
		}
		return s, nil
	}

	s.syncCursor(st)
	if st.Revealed {
		switch key.String() {
		case "enter", "right", "l", "n", "space":
			eng.Next()
		case "left", "h", "p":
			eng.Previous()
		}
		return s, nil
	}

	if i, ok := components.OptionKey(key); ok {
		s.cursor = i
		eng.SelectOption(context.Background(), i)
		return s, nil
	}
	mc := components.MultiChoice{Options: make([]string, len(st.Questions[st.Index].Options)), Cursor: s.cursor}
	if mc.MoveCursor(key) {
		s.cursor = mc.Cursor
		return s, nil
	}
	switch key.String() {
	case "enter":
		eng.SelectOption(context.Background(), s.cursor)
	case "right", "l":
		eng.Next()
	case "left", "h":
		eng.Previous()
	}
	return s, nil
}

// syncCursor puts the cursor back on the first option for a new question.
func (s *StudyCardScreen) syncCursor(st study.State) {
	if st.Index != s.shown {
		s.shown = st.Index
		s.cursor = 0
	}
}

func (s *StudyCardScreen) View(width, height int) string {
	st := s.deps.Study.State()
	str := s.deps.S()
	cw := components.ContentWidth(width)

	var body string
	switch st.Status {
	case study.Empty:
		body = components.Banner(str.StudyEmpty, cw, theme.TextDim)
	case study.SessionFinished:
		body = s.finishedView(st, cw)
	default:
		s.syncCursor(st)
		body = s.cardView(st, cw)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *StudyCardScreen) cardView(st study.State, cw int) string {
	str := s.deps.S()
	q, _ := st.CurrentQuestion()
	loc := q.Localized(s.deps.Language())

	bar := components.NewProgressBar(fmt.Sprintf(str.QuestionOfF, st.Index+1, st.Total()), st.ProgressFraction(), false, cw)
	bar.Fill = theme.Hex(q.Category.Color())

	category := lipgloss.NewStyle().
		Foreground(theme.Hex(q.Category.Color())).
		Bold(true).
		Render(q.Category.DisplayName(s.deps.Language()))

	mc := components.NewMultiChoice(loc.Options)
	mc.Cursor = s.cursor
	mc.Chosen = st.Selected
	mc.Revealed = st.Revealed
	mc.Correct = q.CorrectIndex

	sections := []string{
		bar.View(),
		category,
		theme.Body.Width(cw).Render(loc.Text),
		mc.View(cw),
	}

	if st.Revealed {
		var fb strings.Builder
		if st.IsCorrect() {
			fb.WriteString(theme.Correct.Render("✓ " + str.AnswerCorrect))
		} else {
			fb.WriteString(theme.Incorrect.Render("✗ " + str.AnswerWrong))
			fb.WriteString("\n")
			fb.WriteString(theme.Body.Render(fmt.Sprintf(str.CorrectAnswerIsF, loc.Options[q.CorrectIndex])))
		}
		if loc.Explanation != "" {
			fb.WriteString("\n\n")
			fb.WriteString(theme.Subtitle.Render(str.ExplanationHeader))
			fb.WriteString("\n")
			fb.WriteString(theme.Hint.Width(cw - 6).Render(loc.Explanation))
		}
		sections = append(sections, components.Card(fb.String(), cw))
	}
	return strings.Join(sections, "\n\n")
}

func (s *StudyCardScreen) finishedView(st study.State, cw int) string {
	str := s.deps.S()
	ratio := 0.0
	if st.Answered > 0 {
		ratio = float64(st.Correct) / float64(st.Answered)
	}
	score := lipgloss.NewStyle().
		Foreground(theme.Ratio(ratio)).
		Bold(true).
		Render(fmt.Sprintf(str.StudyScoreF, st.Correct, st.Answered))

	content := strings.Join([]string{
		theme.Title.Render(str.StudyFinished),
		score,
		theme.Hint.Render("[r] " + str.StudyRestart + "   [Enter] " + str.KeyBack),
	}, "\n\n")
	return components.Centered(components.Card(components.Centered(content, cw-6), cw), cw)
}

func (s *StudyCardScreen) Title() string {
	return s.deps.S().StudyTitle
}

func (s *StudyCardScreen) KeyHints() []layout.KeyHint {
	str := s.deps.S()
	st := s.deps.Study.State()
	switch {
	case st.Status == study.SessionFinished:
		return []layout.KeyHint{
			{Key: "r", Description: str.StudyRestart},
			{Key: "Enter", Description: str.KeyBack},
		}
	case st.Status == study.Empty:
		return []layout.KeyHint{{Key: "Esc", Description: str.KeyBack}}
	case st.Revealed:
		return []layout.KeyHint{
			{Key: "Enter", Description: str.KeyContinue},
			{Key: "←→", Description: str.KeyMove},
			{Key: "Esc", Description: str.KeyBack},
		}
	default:
		return []layout.KeyHint{
			{Key: "1-4", Description: str.KeyAnswer},
			{Key: "↑↓", Description: str.KeyNavigate},
			{Key: "←→", Description: str.KeyMove},
			{Key: "Esc", Description: str.KeyBack},
		}
	}
}
