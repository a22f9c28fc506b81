// Package examsession is the timed exam screen.
package examsession

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/exam"
	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/screens/results"
	"github.com/examencivique/examencivique/internal/ui/components"
	"github.com/examencivique/examencivique/internal/ui/layout"
	"github.com/examencivique/examencivique/internal/ui/theme"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmSubmit
	confirmQuit
)

// stateMsg carries an engine snapshot from the countdown goroutine.
type stateMsg struct {
	state exam.State
}

// ExamScreen renders the running exam and forwards input to the engine.
type ExamScreen struct {
	deps    *screen.Deps
	updates chan exam.State
	quit    chan struct{}
	cancel  func()
	once    sync.Once

	cursor  int
	shown   int
	confirm confirmKind
	// done is set once the screen has navigated away.
	done bool
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.EscHandler = (*ExamScreen)(nil)
var _ screen.Closer = (*ExamScreen)(nil)

// New subscribes to the engine; the exam must already be running.
func New(deps *screen.Deps) *ExamScreen {
	s := &ExamScreen{
		deps:    deps,
		updates: make(chan exam.State, 1),
		quit:    make(chan struct{}),
		shown:   -1,
	}
	s.cancel = deps.Exam.Subscribe(s.publish)
	return s
}

// publish keeps only the latest snapshot; ticks the UI missed are stale.
func (s *ExamScreen) publish(st exam.State) {
	for {
		select {
		case s.updates <- st:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

func (s *ExamScreen) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-s.updates:
			return stateMsg{state: st}
		case <-s.quit:
			return nil
		}
	}
}

func (s *ExamScreen) Init() tea.Cmd {
	return s.waitForState()
}

// Close unsubscribes and releases the pending wait.
func (s *ExamScreen) Close() {
	s.once.Do(func() {
		s.cancel()
		close(s.quit)
	})
}

func (s *ExamScreen) HandlesEsc() bool {
	return true
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		if s.done {
			return s, nil
		}
		if msg.state.Status == exam.Finished {
			return s, s.showResults()
		}
		return s, s.waitForState()
	case tea.KeyPressMsg:
		if s.done {
			return s, nil
		}
		if s.confirm != confirmNone {
			return s, s.handleConfirm(msg)
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *ExamScreen) handleConfirm(key tea.KeyPressMsg) tea.Cmd {
	switch key.String() {
	case "y", "o", "enter":
		kind := s.confirm
		s.confirm = confirmNone
		if kind == confirmQuit {
			s.deps.Exam.Abort()
			s.done = true
			return router.Pop
		}
		s.deps.Exam.Submit(context.Background())
		if s.deps.Exam.State().Status == exam.Finished {
			return s.showResults()
		}
	case "n", "esc":
		s.confirm = confirmNone
	}
	return nil
}

func (s *ExamScreen) handleKey(key tea.KeyPressMsg) tea.Cmd {
	eng := s.deps.Exam
	st := eng.State()
	if st.Status == exam.Finished {
		return s.showResults()
	}
	if st.Status != exam.Running {
		return nil
	}
	s.syncCursor(st)

	if i, ok := components.OptionKey(key); ok {
		s.cursor = i
		eng.SelectAnswer(i)
		return nil
	}
	mc := components.MultiChoice{Options: make([]string, catalog.OptionCount), Cursor: s.cursor}
	if mc.MoveCursor(key) {
		s.cursor = mc.Cursor
		return nil
	}

	switch key.String() {
	case "enter", "space":
		eng.SelectAnswer(s.cursor)
	case "right", "l", "n":
		eng.GoNext()
	case "left", "h", "p":
		eng.GoPrevious()
	case "home":
		eng.GoTo(0)
	case "end":
		eng.GoTo(st.Total() - 1)
	case "s":
		s.confirm = confirmSubmit
	case "esc", "q":
		s.confirm = confirmQuit
	}
	return nil
}

func (s *ExamScreen) showResults() tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	next := results.New(s.deps)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// syncCursor moves the cursor to the saved answer of a newly shown question.
func (s *ExamScreen) syncCursor(st exam.State) {
	if st.Index == s.shown {
		return
	}
	s.shown = st.Index
	s.cursor = 0
	if q, ok := st.CurrentQuestion(); ok {
		if a, ok := st.Answer(q.ID); ok {
			s.cursor = a
		}
	}
}

func (s *ExamScreen) View(width, height int) string {
	st := s.deps.Exam.State()
	str := s.deps.S()
	cw := components.ContentWidth(width)

	q, ok := st.CurrentQuestion()
	if !ok || st.Status == exam.NotStarted {
		return ""
	}
	s.syncCursor(st)
	lang := s.deps.Language()
	loc := q.Localized(lang)

	mc := components.NewMultiChoice(loc.Options)
	mc.Cursor = s.cursor
	if a, ok := st.Answer(q.ID); ok {
		mc.Chosen = a
	}

	sections := []string{
		s.statusLine(st, cw),
		s.navigator(st, cw),
		lipgloss.NewStyle().Foreground(theme.Hex(q.Category.Color())).Bold(true).Render(
			fmt.Sprintf(str.QuestionOfF, st.Index+1, st.Total()) + " · " + q.Category.DisplayName(lang) +
				" · " + q.Type.DisplayName(lang)),
		theme.Body.Width(cw).Render(loc.Text),
		mc.View(cw),
	}
	if s.confirm != confirmNone {
		sections = append(sections, s.confirmView(st, cw))
	}

	block := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

func (s *ExamScreen) statusLine(st exam.State, cw int) string {
	str := s.deps.S()
	timerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	if st.TimeCritical() {
		timerStyle = timerStyle.Foreground(theme.BgDark).Background(theme.Error).Padding(0, 1)
	}
	timer := timerStyle.Render("⏱ " + st.FormattedTime())
	answered := theme.Hint.Render(fmt.Sprintf(str.ExamAnsweredF, st.AnsweredCount(), st.Total()))

	gap := max(cw-lipgloss.Width(timer)-lipgloss.Width(answered), 1)
	line := timer + strings.Repeat(" ", gap) + answered

	bar := components.NewProgressBar("", st.AnsweredFraction(), false, cw)
	return line + "\n" + bar.View()
}

// navigator is one cell per question: filled when answered, highlighted
// when current.
func (s *ExamScreen) navigator(st exam.State, cw int) string {
	var b strings.Builder
	perRow := max(cw/2, 1)
	for i, q := range st.Questions {
		if i > 0 && i%perRow == 0 {
			b.WriteString("\n")
		}
		cell := "·"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if _, ok := st.Answer(q.ID); ok {
			cell = "●"
			style = lipgloss.NewStyle().Foreground(theme.Primary)
		}
		if i == st.Index {
			style = style.Foreground(theme.Highlight).Bold(true)
			if cell == "·" {
				cell = "○"
			}
		}
		b.WriteString(style.Render(cell) + " ")
	}
	return b.String()
}

func (s *ExamScreen) confirmView(st exam.State, cw int) string {
	str := s.deps.S()
	var text string
	switch s.confirm {
	case confirmQuit:
		text = str.ExamQuitConfirm
	default:
		if n := len(st.Unanswered()); n > 0 {
			text = fmt.Sprintf(str.ExamSubmitConfirmF, n)
		} else {
			text = str.ExamSubmitAllDone
		}
	}
	prompt := theme.Hint.Render("[y/o] " + str.KeyConfirm + "   [n/Esc] " + str.KeyCancel)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Warning).
		Width(cw-2).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(text) + "\n" + prompt)
}

func (s *ExamScreen) Title() string {
	return s.deps.S().ExamTitle
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	str := s.deps.S()
	if s.confirm != confirmNone {
		return []layout.KeyHint{
			{Key: "y/o", Description: str.KeyConfirm},
			{Key: "n/Esc", Description: str.KeyCancel},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: str.KeyAnswer},
		{Key: "←→", Description: str.KeyMove},
		{Key: "s", Description: str.ExamSubmitHint},
		{Key: "Esc", Description: str.KeyQuit},
	}
}
