package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/screens/account"
	"github.com/examencivique/examencivique/internal/screens/dashboard"
	"github.com/examencivique/examencivique/internal/screens/examsetup"
	"github.com/examencivique/examencivique/internal/screens/studymenu"
	"github.com/examencivique/examencivique/internal/ui/components"
	"github.com/examencivique/examencivique/internal/ui/layout"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	deps *screen.Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps *screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = h.buildMenu(0)
	return h
}

func (h *HomeScreen) buildMenu(selected int) components.Menu {
	s := h.deps.S()
	items := []components.MenuItem{
		{Label: s.MenuStudy, Action: func() tea.Cmd {
			return router.Push(studymenu.New(h.deps))
		}},
		{Label: s.MenuExam, Action: func() tea.Cmd {
			return router.Push(examsetup.New(h.deps))
		}},
		{Label: s.MenuProgress, Action: func() tea.Cmd {
			return router.Push(dashboard.New(h.deps))
		}},
		{Label: s.MenuAccount, Action: func() tea.Cmd {
			return router.Push(account.New(h.deps))
		}},
		{Label: s.MenuQuit, Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	m := components.NewMenu(items)
	m.Selected = selected
	return m
}

// Init opens the login screen first when sessions require an account.
func (h *HomeScreen) Init() tea.Cmd {
	if h.deps.AuthRequired && h.deps.Auth != nil {
		if _, ok := h.deps.User(); !ok {
			return router.Push(account.New(h.deps))
		}
	}
	return nil
}

// Refresh rebuilds the labels, which change with the language.
func (h *HomeScreen) Refresh() tea.Cmd {
	h.menu = h.buildMenu(h.menu.Selected)
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	termHeight := height + layout.HeaderHeight + layout.FooterHeight
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)
	s := h.deps.S()

	sections := []string{renderTitle(s.AppName, cw, compact)}
	if !compact {
		sections = append(sections, renderTagline(s.Tagline, cw))
	}
	sections = append(sections,
		renderStatsBar(h.deps.Progress.Overview(), s, cw, compact),
		components.ButtonColumn(h.menu, cw, compact),
	)
	if h.deps.AuthRequired {
		if _, ok := h.deps.User(); !ok {
			sections = append(sections, renderNotice(s.LoginRequired, cw))
		}
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return h.deps.S().AppName
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	s := h.deps.S()
	return []layout.KeyHint{
		{Key: "↑↓", Description: s.KeyNavigate},
		{Key: "Enter", Description: s.KeySelect},
		{Key: "Ctrl+C", Description: s.KeyQuit},
	}
}
