package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen/screentest"
	"github.com/examencivique/examencivique/internal/screens/examsession"
	"github.com/examencivique/examencivique/internal/screens/studymenu"
)

func sized(m AppModel) AppModel {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppModel)
}

// send delivers msg and any navigation message its command produces.
func send(m AppModel, msg tea.Msg) AppModel {
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if out := screentest.Msg(cmd); out != nil {
		switch out.(type) {
		case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.PopToRootMsg:
			next, _ = m.Update(out)
			m = next.(AppModel)
		}
	}
	return m
}

func TestWelcomeHandsOverToHome(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)
	m := sized(New(env.Deps, false))

	m = send(m, screentest.Key("space"))
	if m.router.Active().Title() != "Examen Civique" {
		t.Errorf("expected home after a key press, got %q", m.router.Active().Title())
	}
}

func TestEscPops(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)
	m := sized(New(env.Deps, true))

	m = send(m, screentest.Key("enter"))
	if _, ok := m.router.Active().(*studymenu.StudyMenuScreen); !ok {
		t.Fatalf("expected study menu, got %T", m.router.Active())
	}
	m = send(m, screentest.Key("esc"))
	if m.router.Depth() != 1 {
		t.Errorf("expected back on home, depth %d", m.router.Depth())
	}
	m = send(m, screentest.Key("esc"))
	if m.router.Depth() != 1 {
		t.Error("esc on home must not pop the root")
	}
}

func TestEscGoesToScreenThatHandlesIt(t *testing.T) {
	env := screentest.New(t, screentest.Bank(catalog.KnowledgePerExam, catalog.SituationalPerExam), false)
	m := sized(New(env.Deps, true))

	m = send(m, screentest.Key("down"))
	m = send(m, screentest.Key("enter")) // exam setup
	m = send(m, screentest.Key("enter")) // start
	s, ok := m.router.Active().(*examsession.ExamScreen)
	if !ok {
		t.Fatalf("expected exam screen, got %T", m.router.Active())
	}
	t.Cleanup(s.Close)

	depth := m.router.Depth()
	m = send(m, screentest.Key("esc"))
	if m.router.Depth() != depth {
		t.Error("esc during an exam must ask for confirmation, not pop")
	}
	if !strings.Contains(m.render(), "Abandonner") {
		t.Error("expected the quit confirmation")
	}
}

func TestCtrlCQuits(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)
	m := sized(New(env.Deps, true))

	_, cmd := m.Update(screentest.Key("ctrl+c"))
	if _, ok := screentest.Msg(cmd).(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", screentest.Msg(cmd))
	}
}

func TestTooSmall(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)
	m := New(env.Deps, true)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	if !strings.Contains(next.(AppModel).render(), "trop petit") {
		t.Error("expected the too-small message")
	}
}

func TestHeaderStatus(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)
	m := sized(New(env.Deps, true))

	view := m.render()
	if !strings.Contains(view, "Réussite 0%") || !strings.Contains(view, "Non connecté") {
		t.Error("expected accuracy and account in the header")
	}
}
