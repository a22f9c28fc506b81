// Package examsetup is the level picker shown before a mock exam.
package examsetup

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/exam"
	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/screens/account"
	"github.com/examencivique/examencivique/internal/screens/examsession"
	"github.com/examencivique/examencivique/internal/ui/components"
	"github.com/examencivique/examencivique/internal/ui/layout"
	"github.com/examencivique/examencivique/internal/ui/theme"
)

// ExamSetupScreen lists the levels with their pools and history.
type ExamSetupScreen struct {
	deps   *screen.Deps
	levels []catalog.Level
	menu   components.Menu
	errMsg string
}

var _ screen.Screen = (*ExamSetupScreen)(nil)
var _ screen.KeyHintProvider = (*ExamSetupScreen)(nil)
var _ screen.Refresher = (*ExamSetupScreen)(nil)

// New creates the setup screen.
func New(deps *screen.Deps) *ExamSetupScreen {
	s := &ExamSetupScreen{deps: deps, levels: catalog.AllLevels()}
	s.rebuild(0)
	return s
}

func (s *ExamSetupScreen) rebuild(selected int) {
	lang := s.deps.Language()
	items := make([]components.MenuItem, len(s.levels))
	for i, l := range s.levels {
		items[i] = components.MenuItem{
			Label:    l.DisplayName(lang),
			Disabled: !s.deps.Catalog.CanStartExam(l),
			Action:   func() tea.Cmd { return s.start(l) },
		}
	}
	s.menu = components.NewMenu(items)
	if selected < len(items) && !items[selected].Disabled {
		s.menu.Selected = selected
	}
}

func (s *ExamSetupScreen) start(l catalog.Level) tea.Cmd {
	_, err := s.deps.Exam.Start(l)
	if errors.Is(err, exam.ErrNotAuthorized) {
		return router.Push(account.New(s.deps))
	}
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if s.deps.Exam.State().Status != exam.Running {
		return nil
	}
	s.errMsg = ""
	return router.Push(examsession.New(s.deps))
}

func (s *ExamSetupScreen) Init() tea.Cmd {
	return nil
}

// Refresh picks up new history and the current language.
func (s *ExamSetupScreen) Refresh() tea.Cmd {
	s.rebuild(s.menu.Selected)
	return nil
}

func (s *ExamSetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ExamSetupScreen) View(width, height int) string {
	str := s.deps.S()
	cw := components.ContentWidth(width)
	total := catalog.QuestionsPerExam

	format := fmt.Sprintf(str.ExamFormatF,
		total,
		catalog.KnowledgePerExam,
		catalog.SituationalPerExam,
		exam.DurationSeconds/60,
		exam.PassMark(total, s.deps.Exam.PassRatio()),
	)

	sections := []string{
		theme.Title.Width(cw).Render(str.ExamSetupTitle),
		theme.Hint.Width(cw).Render(format),
		s.menu.View(),
	}
	if s.menu.Selected < len(s.levels) {
		sections = append(sections, components.Card(s.levelDetails(s.levels[s.menu.Selected]), cw))
	}
	// Disabled levels cannot be highlighted, so their reason is listed here.
	c := s.deps.Catalog
	for _, l := range s.levels {
		if c.CanStartExam(l) {
			continue
		}
		msg := l.ShortName() + " · " + fmt.Sprintf(str.ExamInsufficientF,
			len(c.Knowledge(l)), catalog.KnowledgePerExam, len(c.Situational(l)), catalog.SituationalPerExam)
		sections = append(sections, components.Banner(msg, cw, theme.Warning))
	}
	if s.errMsg != "" {
		sections = append(sections, components.Banner(s.errMsg, cw, theme.Error))
	}

	block := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

func (s *ExamSetupScreen) levelDetails(l catalog.Level) string {
	str := s.deps.S()
	c := s.deps.Catalog
	k, sit := len(c.Knowledge(l)), len(c.Situational(l))

	lines := []string{
		theme.Subtitle.Render(l.DisplayName(s.deps.Language())),
		theme.Hint.Render(l.Description(s.deps.Language())),
		theme.Body.Render(fmt.Sprintf(str.ExamPoolF, k, sit)),
	}
	if !c.CanStartExam(l) {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Warning).Render(
			fmt.Sprintf(str.ExamInsufficientF, k, catalog.KnowledgePerExam, sit, catalog.SituationalPerExam)))
	}

	stats := s.deps.Progress.ExamStats(l)
	if stats.Taken == 0 {
		lines = append(lines, theme.Hint.Render(str.ExamNoHistory))
	} else {
		lines = append(lines, theme.Body.Render(
			fmt.Sprintf(str.ExamHistoryF, stats.Taken, stats.Passed, stats.BestPercentage)))
	}
	return strings.Join(lines, "\n")
}

func (s *ExamSetupScreen) Title() string {
	return s.deps.S().ExamSetupTitle
}

func (s *ExamSetupScreen) KeyHints() []layout.KeyHint {
	str := s.deps.S()
	return []layout.KeyHint{
		{Key: "↑↓", Description: str.KeyNavigate},
		{Key: "Enter", Description: str.ExamStart},
		{Key: "Esc", Description: str.KeyBack},
	}
}
