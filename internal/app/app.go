// Package app is the root Bubble Tea model.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/screens/home"
	"github.com/examencivique/examencivique/internal/screens/welcome"
	"github.com/examencivique/examencivique/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   *screen.Deps
	router *router.Router
	width  int
	height int
}

// New creates the model. The welcome screen hands over to home on the
// first key press; skipWelcome starts on home directly.
func New(deps *screen.Deps, skipWelcome bool) AppModel {
	var first screen.Screen
	if skipWelcome {
		first = home.New(deps)
	} else {
		s := deps.S()
		first = welcome.New(func() screen.Screen { return home.New(deps) }, s.Tagline, s.KeyContinue+" ⏎")
	}
	return AppModel{deps: deps, router: router.New(first)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscHandler); ok && h.HandlesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame, empty until the first size message.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	s := m.deps.S()
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(s.TooSmallF, m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(s.AppName, title, m.status(), m.width)

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{
			{Key: "Esc", Description: s.KeyBack},
			{Key: "Ctrl+C", Description: s.KeyQuit},
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// status is the right side of the header: headline stats and the account.
func (m AppModel) status() string {
	s := m.deps.S()
	o := m.deps.Progress.Overview()
	who := s.SignedOut
	if u, ok := m.deps.User(); ok {
		who = u.Email
	}
	return fmt.Sprintf(s.HeaderAccuracyF, int(o.Accuracy*100)) + "  " +
		fmt.Sprintf(s.HeaderMasteredF, o.Mastered) + "  " + who + "  "
}

// Run starts the program and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, deps *screen.Deps, skipWelcome bool) error {
	p := tea.NewProgram(New(deps, skipWelcome), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
