package study

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/progress"
	"github.com/examencivique/examencivique/internal/store"
)

var ctx = context.Background()

func testCatalog() *catalog.Catalog {
	var qs []catalog.Question
	for i, cat := range []catalog.Category{
		catalog.CategoryInstitutions, catalog.CategoryInstitutions, catalog.CategoryHistory,
		catalog.CategoryLiving, catalog.CategoryInstitutions, catalog.CategoryRights,
	} {
		qs = append(qs, catalog.Question{
			ID:           fmt.Sprintf("q%d", i),
			Category:     cat,
			Levels:       []catalog.Level{catalog.LevelCSP},
			Type:         catalog.TypeKnowledge,
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 1,
		})
	}
	return catalog.New(qs, nil)
}

func newEngine(t *testing.T, opts ...Option) (*Engine, *progress.Store) {
	t.Helper()
	ps := progress.NewStore(ctx, store.NewMemory(), nil)
	base := []Option{WithRand(rand.New(rand.NewPCG(3, 4)))}
	return NewEngine(testCatalog(), ps, nil, append(base, opts...)...), ps
}

func questionIDs(s State) []string {
	out := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = q.ID
	}
	return out
}

func TestStart_Pools(t *testing.T) {
	e, ps := newEngine(t)
	ps.RecordAnswer(ctx, "q0", true)
	ps.RecordAnswer(ctx, "q2", false)

	tests := []struct {
		name     string
		mode     Mode
		category catalog.Category
		want     []string // sorted
	}{
		{"all", ModeAll, "", []string{"q0", "q1", "q2", "q3", "q4", "q5"}},
		{"category", ModeCategory, catalog.CategoryInstitutions, []string{"q0", "q1", "q4"}},
		{"category without category", ModeCategory, "", nil},
		{"category with no questions", ModeCategory, catalog.CategoryPrinciples, nil},
		{"weak", ModeWeak, "", []string{"q0", "q2"}},
		{"unanswered", ModeUnanswered, "", []string{"q1", "q3", "q4", "q5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.Start(tt.mode, tt.category); err != nil {
				t.Fatalf("Start: %v", err)
			}
			s := e.State()
			got := questionIDs(s)
			slices.Sort(got)
			if !slices.Equal(got, tt.want) {
				t.Errorf("pool = %v, want %v", got, tt.want)
			}
			wantStatus := Active
			if len(tt.want) == 0 {
				wantStatus = Empty
			}
			if s.Status != wantStatus {
				t.Errorf("Status = %v, want %v", s.Status, wantStatus)
			}
		})
	}
}

func TestStart_WeakOrderedByAccuracy(t *testing.T) {
	e, ps := newEngine(t)
	// q3: 1/5 = 0.2, q4: 1/2 = 0.5, q1: 0/3 = 0.0; answered in that order.
	record := func(id string, wrong, right int) {
		for range wrong {
			ps.RecordAnswer(ctx, id, false)
		}
		for range right {
			ps.RecordAnswer(ctx, id, true)
		}
	}
	record("q3", 4, 1)
	record("q4", 1, 1)
	record("q1", 3, 0)

	if err := e.Start(ModeWeak, ""); err != nil {
		t.Fatal(err)
	}
	if got, want := questionIDs(e.State()), []string{"q1", "q3", "q4"}; !slices.Equal(got, want) {
		t.Errorf("weak order = %v, want %v", got, want)
	}

	// Reset keeps the deterministic order.
	if err := e.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := questionIDs(e.State()); !slices.Equal(got, []string{"q1", "q3", "q4"}) {
		t.Errorf("weak order after Reset = %v", got)
	}
}

func TestStart_WeakTiesKeepCatalogOrder(t *testing.T) {
	e, ps := newEngine(t)
	ps.RecordAnswer(ctx, "q4", false)
	ps.RecordAnswer(ctx, "q2", false)
	ps.RecordAnswer(ctx, "q5", true)
	ps.RecordAnswer(ctx, "q5", false)

	if err := e.Start(ModeWeak, ""); err != nil {
		t.Fatal(err)
	}
	if got, want := questionIDs(e.State()), []string{"q2", "q4", "q5"}; !slices.Equal(got, want) {
		t.Errorf("weak order = %v, want %v", got, want)
	}
}

func TestStart_ConcurrentStartsAndResets(t *testing.T) {
	e, _ := newEngine(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = e.Start(ModeAll, "")
			} else {
				_ = e.Reset()
			}
		}()
	}
	wg.Wait()

	if s := e.State(); s.Total() != 6 && s.Status != Empty {
		t.Errorf("unexpected state after concurrent starts: %+v", s)
	}
}

func TestStart_WeakSkipsUnknownIDs(t *testing.T) {
	e, ps := newEngine(t)
	ps.RecordAnswer(ctx, "retired", false)
	ps.RecordAnswer(ctx, "q5", false)

	_ = e.Start(ModeWeak, "")
	if got := questionIDs(e.State()); !slices.Equal(got, []string{"q5"}) {
		t.Errorf("weak pool = %v, want [q5]", got)
	}
}

func TestSelectOption_RecordsAndReveals(t *testing.T) {
	e, ps := newEngine(t)
	_ = e.Start(ModeAll, "")
	q, _ := e.State().CurrentQuestion()

	e.SelectOption(ctx, q.CorrectIndex)
	s := e.State()
	if !s.Revealed || s.Selected != q.CorrectIndex || !s.IsCorrect() {
		t.Errorf("after select: %+v", s)
	}
	r, ok := ps.Current().QuestionResults.Get(q.ID)
	if !ok || r.Attempts != 1 || r.CorrectAttempts != 1 {
		t.Errorf("recorded %+v, %v; want 1/1", r, ok)
	}

	// Locked once revealed.
	e.SelectOption(ctx, 0)
	if got := e.State().Selected; got != q.CorrectIndex {
		t.Errorf("Selected changed to %d after reveal", got)
	}
	if r, _ := ps.Current().QuestionResults.Get(q.ID); r.Attempts != 1 {
		t.Errorf("attempts = %d after blocked reselect, want 1", r.Attempts)
	}
}

func TestNavigation(t *testing.T) {
	e, _ := newEngine(t)
	_ = e.Start(ModeCategory, catalog.CategoryInstitutions) // 3 questions

	e.Previous()
	if e.State().Index != 0 {
		t.Error("Previous on first question moved")
	}

	e.SelectOption(ctx, 0)
	e.Next()
	s := e.State()
	if s.Index != 1 || s.Revealed || s.Selected != -1 {
		t.Errorf("after Next: index=%d revealed=%v selected=%d", s.Index, s.Revealed, s.Selected)
	}

	e.Next()
	if !e.State().IsLastQuestion() {
		t.Error("expected last question")
	}
	e.Next()
	if e.State().Status != SessionFinished {
		t.Errorf("Status = %v after Next on last, want SessionFinished", e.State().Status)
	}
	if e.State().ProgressFraction() != 1 {
		t.Error("finished session progress != 1")
	}

	// Finished sessions ignore input.
	e.Previous()
	e.SelectOption(ctx, 1)
	if e.State().Status != SessionFinished || e.State().Index != 2 {
		t.Error("finished session reacted to input")
	}
}

func TestRevisit_RecordsAgainByDefault(t *testing.T) {
	e, ps := newEngine(t)
	_ = e.Start(ModeAll, "")
	q, _ := e.State().CurrentQuestion()

	e.SelectOption(ctx, 0)
	e.Next()
	e.Previous()
	e.SelectOption(ctx, q.CorrectIndex)

	r, _ := ps.Current().QuestionResults.Get(q.ID)
	if r.Attempts != 2 || r.CorrectAttempts != 1 {
		t.Errorf("result = %+v, want 2 attempts / 1 correct", r)
	}
	if got := e.State().Answered; got != 2 {
		t.Errorf("Answered = %d, want 2", got)
	}
}

func TestRevisit_FirstAnswerOnly(t *testing.T) {
	e, ps := newEngine(t, WithRecordRevisits(false))
	_ = e.Start(ModeAll, "")
	q, _ := e.State().CurrentQuestion()

	e.SelectOption(ctx, 0)
	e.Next()
	e.Previous()
	e.SelectOption(ctx, q.CorrectIndex)

	if !e.State().Revealed {
		t.Error("revisit selection was not revealed")
	}
	r, _ := ps.Current().QuestionResults.Get(q.ID)
	if r.Attempts != 1 || r.CorrectAttempts != 0 {
		t.Errorf("result = %+v, want only the first answer recorded", r)
	}
}

func TestReset_Reshuffles(t *testing.T) {
	e, _ := newEngine(t)
	_ = e.Start(ModeAll, "")
	e.SelectOption(ctx, 1)
	e.Next()

	first := questionIDs(e.State())
	differs := false
	for range 10 {
		if err := e.Reset(); err != nil {
			t.Fatal(err)
		}
		s := e.State()
		if s.Index != 0 || s.Answered != 0 || s.Mode != ModeAll {
			t.Fatalf("Reset state = %+v", s)
		}
		if !slices.Equal(questionIDs(s), first) {
			differs = true
		}
	}
	if !differs {
		t.Error("ten resets produced the same order")
	}
}

type gate bool

func (g gate) IsSignedIn() bool { return bool(g) }

func TestStart_Gate(t *testing.T) {
	e, _ := newEngine(t, WithGate(gate(false)))
	if err := e.Start(ModeAll, ""); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Start err = %v, want ErrNotAuthorized", err)
	}
	if e.State().Status != Empty {
		t.Error("gated Start changed state")
	}
}

func TestEmpty_IgnoresInput(t *testing.T) {
	e, ps := newEngine(t)
	_ = e.Start(ModeWeak, "")
	e.SelectOption(ctx, 1)
	e.Next()
	if e.State().Status != Empty {
		t.Errorf("Status = %v, want Empty", e.State().Status)
	}
	if ps.Current().QuestionResults.Len() != 0 {
		t.Error("empty session recorded an answer")
	}
}

func TestSubscribe(t *testing.T) {
	e, _ := newEngine(t)
	var statuses []Status
	cancel := e.Subscribe(func(s State) { statuses = append(statuses, s.Status) })
	_ = e.Start(ModeCategory, catalog.CategoryHistory) // one question
	e.SelectOption(ctx, 0)
	e.Next()
	cancel()
	e.Next()

	if want := []Status{Active, Active, SessionFinished}; !slices.Equal(statuses, want) {
		t.Errorf("notifications = %v, want %v", statuses, want)
	}
}
