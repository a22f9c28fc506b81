package examsession

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/exam"
	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen/screentest"
	"github.com/examencivique/examencivique/internal/screens/results"
)

func startExam(t *testing.T) (*ExamScreen, *screentest.Env) {
	t.Helper()
	env := screentest.New(t, screentest.Bank(catalog.KnowledgePerExam, catalog.SituationalPerExam), false)
	if _, err := env.Deps.Exam.Start(catalog.LevelCSP); err != nil {
		t.Fatalf("start: %v", err)
	}
	s := New(env.Deps)
	t.Cleanup(s.Close)
	return s, env
}

func expectResults(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	msg, ok := screentest.Msg(cmd).(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", screentest.Msg(cmd))
	}
	if _, ok := msg.Screen.(*results.ResultsScreen); !ok {
		t.Errorf("expected results screen, got %T", msg.Screen)
	}
}

func TestAnswerAndNavigate(t *testing.T) {
	s, env := startExam(t)

	screentest.Press(s, "c", "right", "down", "enter", "n")

	st := env.Deps.Exam.State()
	if st.AnsweredCount() != 2 {
		t.Errorf("expected 2 answers, got %d", st.AnsweredCount())
	}
	if st.Index != 2 {
		t.Errorf("expected index 2, got %d", st.Index)
	}
	if a, _ := st.Answer(st.Questions[1].ID); a != 1 {
		t.Errorf("expected option 1 for second question, got %d", a)
	}

	screentest.Press(s, "p", "left")
	if got := env.Deps.Exam.State().Index; got != 0 {
		t.Errorf("expected back at index 0, got %d", got)
	}
}

func TestCursorFollowsSavedAnswer(t *testing.T) {
	s, _ := startExam(t)

	screentest.Press(s, "d", "right", "left")
	s.View(110, 45)
	if s.cursor != 3 {
		t.Errorf("expected cursor on saved answer 3, got %d", s.cursor)
	}
}

func TestViewShowsTimerAndCount(t *testing.T) {
	s, _ := startExam(t)
	screentest.Press(s, "a")

	view := s.View(110, 45)
	if !strings.Contains(view, "45:00") {
		t.Error("expected full timer")
	}
	if !strings.Contains(view, "1/40 répondues") {
		t.Error("expected answered count")
	}
}

func TestSubmitConfirmation(t *testing.T) {
	s, env := startExam(t)
	screentest.Press(s, "c")

	screentest.Press(s, "s")
	if !strings.Contains(s.View(110, 45), "Il reste 39 question(s)") {
		t.Error("expected unanswered count in confirmation")
	}

	_, cmd := screentest.Press(s, "n")
	if cmd != nil || env.Deps.Exam.State().Status != exam.Running {
		t.Fatal("cancel should keep the exam running")
	}

	_, cmd = screentest.Press(s, "s", "y")
	expectResults(t, cmd)
	if env.Deps.Exam.State().Status != exam.Finished {
		t.Error("expected finished exam")
	}
	if n := len(env.Deps.Progress.Current().ExamResults); n != 1 {
		t.Errorf("expected one recorded exam, got %d", n)
	}
}

func TestQuitConfirmationAborts(t *testing.T) {
	s, env := startExam(t)
	screentest.Press(s, "c")

	if !s.HandlesEsc() {
		t.Fatal("exam screen must handle Esc itself")
	}
	screentest.Press(s, "esc")
	if !strings.Contains(s.View(110, 45), "Abandonner") {
		t.Error("expected quit confirmation")
	}
	screentest.Press(s, "esc")
	if s.confirm != confirmNone {
		t.Fatal("esc should cancel the confirmation")
	}

	_, cmd := screentest.Press(s, "q", "o")
	if _, ok := screentest.Msg(cmd).(router.PopScreenMsg); !ok {
		t.Fatalf("expected PopScreenMsg, got %T", screentest.Msg(cmd))
	}
	if env.Deps.Exam.State().Status != exam.NotStarted {
		t.Error("expected aborted exam")
	}
	if n := len(env.Deps.Progress.Current().ExamResults); n != 0 {
		t.Errorf("aborted exam must not be recorded, got %d", n)
	}
}

func TestTimeoutShowsResultsOnce(t *testing.T) {
	s, env := startExam(t)
	wait := s.Init()

	env.Clock.Advance(exam.DurationSeconds * time.Second)

	// Ticks may arrive before the final snapshot; keep waiting like the
	// program loop would.
	for i := 0; i < 10 && !s.done; i++ {
		_, cmd := s.Update(wait())
		if s.done {
			expectResults(t, cmd)
			break
		}
		wait = cmd
	}
	if !s.done {
		t.Fatal("expected the screen to leave after the timeout")
	}
	if env.Deps.Exam.State().Status != exam.Finished {
		t.Error("expected auto-submitted exam")
	}

	// Later snapshots and keys are ignored.
	if _, cmd := s.Update(stateMsg{state: env.Deps.Exam.State()}); cmd != nil {
		t.Error("expected no second navigation")
	}
	if _, cmd := screentest.Press(s, "s"); cmd != nil {
		t.Error("expected keys ignored after leaving")
	}
}

func TestCloseReleasesWait(t *testing.T) {
	s, _ := startExam(t)
	// Drain the snapshot published by Start, if any, so the wait blocks.
	select {
	case <-s.updates:
	default:
	}
	wait := s.waitForState()

	s.Close()
	s.Close()
	if msg := wait(); msg != nil {
		t.Errorf("expected nil after close, got %T", msg)
	}
}
