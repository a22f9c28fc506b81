// Package screentest builds in-memory service graphs for screen tests.
package screentest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/examencivique/examencivique/internal/auth"
	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/exam"
	"github.com/examencivique/examencivique/internal/i18n"
	"github.com/examencivique/examencivique/internal/progress"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/store"
	"github.com/examencivique/examencivique/internal/study"
)

// Start is the frozen time every test environment begins at.
var Start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// Env is a full service graph over an in-memory store.
type Env struct {
	Deps  *screen.Deps
	KV    *store.Memory
	Clock *exam.ManualClock
}

// Bank builds a catalog with the given CSP pool sizes and a small CR pool.
// Every question's correct option is index 2 ("c").
func Bank(knowledge, situational int) *catalog.Catalog {
	cats := catalog.AllCategories()
	var qs []catalog.Question
	add := func(prefix string, n int, typ catalog.QuestionType, levels ...catalog.Level) {
		for i := range n {
			qs = append(qs, catalog.Question{
				ID:           fmt.Sprintf("%s-%02d", prefix, i),
				Category:     cats[i%len(cats)],
				Levels:       levels,
				Type:         typ,
				Text:         fmt.Sprintf("Question %s %d ?", prefix, i),
				Options:      []string{"alpha", "bravo", "charlie", "delta"},
				CorrectIndex: 2,
				Explanation:  "Parce que charlie.",
			})
		}
	}
	add("k", knowledge, catalog.TypeKnowledge, catalog.LevelCSP)
	add("s", situational, catalog.TypeSituational, catalog.LevelCSP)
	add("cr", 3, catalog.TypeKnowledge, catalog.LevelCR)
	return catalog.New(qs, nil)
}

// New wires every service the screens use. With authRequired the engines
// refuse to start until someone signs in.
func New(t testing.TB, c *catalog.Catalog, authRequired bool) *Env {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemory()
	clock := exam.NewManualClock(Start)
	now := func() time.Time { return clock.Now() }

	prog := progress.NewStore(ctx, kv, nil, progress.WithClock(now))
	accounts := auth.NewService(kv, nil, auth.WithClock(now), auth.WithBcryptCost(bcrypt.MinCost))

	examOpts := []exam.Option{exam.WithClock(clock), exam.WithRand(rand.New(rand.NewPCG(1, 2)))}
	studyOpts := []study.Option{study.WithRand(rand.New(rand.NewPCG(3, 4)))}
	if authRequired {
		examOpts = append(examOpts, exam.WithGate(accounts))
		studyOpts = append(studyOpts, study.WithGate(accounts))
	}
	examEngine := exam.NewEngine(c, prog, nil, examOpts...)
	t.Cleanup(examEngine.Close)

	return &Env{
		Deps: &screen.Deps{
			Catalog:      c,
			Progress:     prog,
			Exam:         examEngine,
			Study:        study.NewEngine(c, prog, nil, studyOpts...),
			Auth:         accounts,
			Lang:         i18n.NewManager(ctx, kv, nil),
			AuthRequired: authRequired,
		},
		KV:    kv,
		Clock: clock,
	}
}

var namedKeys = map[string]rune{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"tab":       tea.KeyTab,
	"space":     tea.KeySpace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"backspace": tea.KeyBackspace,
}

// Key builds a key press from its String form: "enter", "ctrl+r", "a".
func Key(name string) tea.KeyPressMsg {
	if len(name) > 5 && name[:5] == "ctrl+" {
		r := []rune(name[5:])[0]
		return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
	}
	if code, ok := namedKeys[name]; ok {
		return tea.KeyPressMsg{Code: code}
	}
	r := []rune(name)[0]
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Press sends the keys in order and returns the last command.
func Press(s screen.Screen, keys ...string) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		s, cmd = s.Update(Key(k))
	}
	return s, cmd
}

// Type sends each rune of text as a key press.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

// Msg runs cmd and returns its message, nil for a nil command.
func Msg(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
