package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/screen/screentest"
	"github.com/examencivique/examencivique/internal/screens/account"
	"github.com/examencivique/examencivique/internal/screens/dashboard"
	"github.com/examencivique/examencivique/internal/screens/examsetup"
	"github.com/examencivique/examencivique/internal/screens/studymenu"
)

func pushed(t *testing.T, cmd tea.Cmd) screen.Screen {
	t.Helper()
	msg, ok := screentest.Msg(cmd).(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", screentest.Msg(cmd))
	}
	return msg.Screen
}

func TestMenuTargets(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)

	tests := []struct {
		downs int
		check func(screen.Screen) bool
	}{
		{0, func(s screen.Screen) bool { _, ok := s.(*studymenu.StudyMenuScreen); return ok }},
		{1, func(s screen.Screen) bool { _, ok := s.(*examsetup.ExamSetupScreen); return ok }},
		{2, func(s screen.Screen) bool { _, ok := s.(*dashboard.DashboardScreen); return ok }},
		{3, func(s screen.Screen) bool { _, ok := s.(*account.AccountScreen); return ok }},
	}
	for _, tt := range tests {
		h := New(env.Deps)
		for range tt.downs {
			screentest.Press(h, "down")
		}
		_, cmd := screentest.Press(h, "enter")
		if s := pushed(t, cmd); !tt.check(s) {
			t.Errorf("item %d pushed %T", tt.downs, s)
		}
	}
}

func TestQuitItem(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)
	h := New(env.Deps)
	screentest.Press(h, "down", "down", "down", "down")

	_, cmd := screentest.Press(h, "enter")
	if _, ok := screentest.Msg(cmd).(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", screentest.Msg(cmd))
	}
}

func TestStatsBar(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)
	ctx := context.Background()
	env.Deps.Progress.RecordAnswer(ctx, "k-00", true)
	env.Deps.Progress.RecordAnswer(ctx, "k-01", false)

	view := New(env.Deps).View(120, 40)
	if !strings.Contains(view, "50% Réussite") {
		t.Error("expected overall accuracy in the stats bar")
	}
	if strings.Contains(view, "Connectez-vous") {
		t.Error("login notice only shows when accounts are required")
	}
}

func TestAuthRequiredOpensLogin(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), true)
	h := New(env.Deps)

	if _, ok := pushed(t, h.Init()).(*account.AccountScreen); !ok {
		t.Error("expected the login screen first")
	}
	if !strings.Contains(h.View(120, 40), "Connectez-vous") {
		t.Error("expected login notice")
	}

	if _, err := env.Deps.Auth.Register(context.Background(), "a@b.fr", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if cmd := New(env.Deps).Init(); cmd != nil {
		t.Error("signed-in users go straight to the menu")
	}
}

func TestRefreshFollowsLanguage(t *testing.T) {
	env := screentest.New(t, screentest.Bank(4, 2), false)
	h := New(env.Deps)

	if err := env.Deps.Lang.Set(context.Background(), "zh"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	h.Refresh()
	if h.menu.Items[0].Label == "RÉVISER" {
		t.Error("expected labels rebuilt in the new language")
	}
}
