// Package studymenu lets the user pick what to review.
package studymenu

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/screens/account"
	"github.com/examencivique/examencivique/internal/screens/studycard"
	"github.com/examencivique/examencivique/internal/study"
	"github.com/examencivique/examencivique/internal/ui/components"
	"github.com/examencivique/examencivique/internal/ui/layout"
	"github.com/examencivique/examencivique/internal/ui/theme"
)

type entry struct {
	mode     study.Mode
	category catalog.Category
	label    string
	count    int
}

// StudyMenuScreen lists the study modes with their question counts.
type StudyMenuScreen struct {
	deps    *screen.Deps
	entries []entry
	menu    components.Menu
	errMsg  string
}

var _ screen.Screen = (*StudyMenuScreen)(nil)
var _ screen.KeyHintProvider = (*StudyMenuScreen)(nil)
var _ screen.Refresher = (*StudyMenuScreen)(nil)

// New creates the study menu.
func New(deps *screen.Deps) *StudyMenuScreen {
	s := &StudyMenuScreen{deps: deps}
	s.rebuild(0)
	return s
}

// rebuild recomputes the counts; they change after every session.
func (s *StudyMenuScreen) rebuild(selected int) {
	str := s.deps.S()
	lang := s.deps.Language()
	weak, unanswered := s.deps.Progress.StudyCounts(s.deps.Catalog)

	s.entries = []entry{
		{mode: study.ModeAll, label: str.StudyAllF, count: s.deps.Catalog.Len()},
		{mode: study.ModeWeak, label: str.StudyWeakF, count: weak},
		{mode: study.ModeUnanswered, label: str.StudyUnansweredF, count: unanswered},
	}
	for _, cat := range catalog.AllCategories() {
		s.entries = append(s.entries, entry{
			mode:     study.ModeCategory,
			category: cat,
			label:    fmt.Sprintf(str.StudyCategoryF, cat.DisplayName(lang), len(s.deps.Catalog.ByCategory(cat))),
			count:    len(s.deps.Catalog.ByCategory(cat)),
		})
	}

	items := make([]components.MenuItem, len(s.entries))
	for i, e := range s.entries {
		label := e.label
		if e.mode != study.ModeCategory {
			label = fmt.Sprintf(e.label, e.count)
		}
		items[i] = components.MenuItem{
			Label:    label,
			Disabled: e.count == 0,
			Action:   func() tea.Cmd { return s.start(e) },
		}
	}
	s.menu = components.NewMenu(items)
	if selected < len(items) && !items[selected].Disabled {
		s.menu.Selected = selected
	}
}

func (s *StudyMenuScreen) start(e entry) tea.Cmd {
	err := s.deps.Study.Start(e.mode, e.category)
	if errors.Is(err, study.ErrNotAuthorized) {
		return router.Push(account.New(s.deps))
	}
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	return router.Push(studycard.New(s.deps))
}

func (s *StudyMenuScreen) Init() tea.Cmd {
	return nil
}

func (s *StudyMenuScreen) Refresh() tea.Cmd {
	s.rebuild(s.menu.Selected)
	return nil
}

func (s *StudyMenuScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *StudyMenuScreen) View(width, height int) string {
	str := s.deps.S()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render(str.StudyTitle))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	block := lipgloss.NewStyle().Width(cw).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

func (s *StudyMenuScreen) Title() string {
	return s.deps.S().StudyTitle
}

func (s *StudyMenuScreen) KeyHints() []layout.KeyHint {
	str := s.deps.S()
	return []layout.KeyHint{
		{Key: "↑↓", Description: str.KeyNavigate},
		{Key: "Enter", Description: str.KeySelect},
		{Key: "Esc", Description: str.KeyBack},
	}
}
