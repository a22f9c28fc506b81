// Package study runs flashcard-style review sessions.
package study

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/progress"
)

// ErrNotAuthorized is returned by Start when sign-in is required and nobody
// is signed in.
var ErrNotAuthorized = errors.New("study: sign-in required")

// Mode selects the question pool of a session.
type Mode int

const (
	ModeAll Mode = iota
	ModeCategory
	ModeWeak
	ModeUnanswered
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeCategory:
		return "category"
	case ModeWeak:
		return "weak"
	case ModeUnanswered:
		return "unanswered"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Status is the lifecycle position of a session.
type Status int

const (
	Empty Status = iota // no questions for the mode
	Active
	SessionFinished
)

// Progress is what a session reads from and writes to the progress store.
type Progress interface {
	Current() progress.Data
	WeakQuestionIDs() []string
	RecordAnswer(ctx context.Context, questionID string, correct bool)
}

// Gate decides whether a session may start.
type Gate interface {
	IsSignedIn() bool
}

// Engine is the study session state machine.
type Engine struct {
	catalog        *catalog.Catalog
	progress       Progress
	logger         *slog.Logger
	rng            *rand.Rand
	gate           Gate
	recordRevisits bool

	mu        sync.Mutex
	mode      Mode
	category  catalog.Category
	status    Status
	questions []catalog.Question
	index     int
	selected  int
	revealed  bool
	answered  int
	correct   int
	recorded  map[string]bool

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithGate requires g.IsSignedIn before a session may start.
func WithGate(g Gate) Option { return func(e *Engine) { e.gate = g } }

// WithRecordRevisits controls whether answering a question again after
// navigating back to it records another attempt. It defaults to true.
func WithRecordRevisits(on bool) Option { return func(e *Engine) { e.recordRevisits = on } }

// NewEngine creates an engine with an Empty session.
func NewEngine(c *catalog.Catalog, p Progress, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{
		catalog:        c,
		progress:       p,
		logger:         logger,
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		recordRevisits: true,
		selected:       -1,
		subs:           make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a session over the pool selected by mode. category is only
// read in ModeCategory. An empty pool leaves the session Empty.
func (e *Engine) Start(mode Mode, category catalog.Category) error {
	if e.gate != nil && !e.gate.IsSignedIn() {
		return ErrNotAuthorized
	}
	e.mu.Lock()
	snap := e.startLocked(mode, category)
	e.mu.Unlock()

	e.logger.Info("study session started", "mode", mode.String(), "category", category, "questions", len(snap.Questions))
	e.notify(snap)
	return nil
}

// Reset restarts the session with the same mode and category.
func (e *Engine) Reset() error {
	if e.gate != nil && !e.gate.IsSignedIn() {
		return ErrNotAuthorized
	}
	e.mu.Lock()
	snap := e.startLocked(e.mode, e.category)
	e.mu.Unlock()

	e.notify(snap)
	return nil
}

// startLocked builds the pool under e.mu, which also guards e.rng.
func (e *Engine) startLocked(mode Mode, category catalog.Category) State {
	pool := e.pool(mode, category)
	e.mode = mode
	e.category = category
	e.questions = pool
	e.index = 0
	e.selected = -1
	e.revealed = false
	e.answered = 0
	e.correct = 0
	e.recorded = make(map[string]bool)
	e.status = Active
	if len(pool) == 0 {
		e.status = Empty
	}
	return e.snapshotLocked()
}

func (e *Engine) pool(mode Mode, category catalog.Category) []catalog.Question {
	switch mode {
	case ModeAll:
		return e.shuffled(e.catalog.All())
	case ModeCategory:
		if category == "" {
			return nil
		}
		return e.shuffled(e.catalog.ByCategory(category))
	case ModeWeak:
		return e.weakest()
	case ModeUnanswered:
		results := e.progress.Current().QuestionResults
		var out []catalog.Question
		for _, q := range e.catalog.All() {
			if !results.Has(q.ID) {
				out = append(out, q)
			}
		}
		return e.shuffled(out)
	default:
		return nil
	}
}

// weakest returns the unmastered questions ordered by their own accuracy,
// lowest first. Ties keep catalog order. Ids no longer in the catalog are
// skipped.
func (e *Engine) weakest() []catalog.Question {
	results := e.progress.Current().QuestionResults
	weak := make(map[string]bool)
	for _, id := range e.progress.WeakQuestionIDs() {
		weak[id] = true
	}
	var out []catalog.Question
	for _, q := range e.catalog.All() {
		if weak[q.ID] {
			out = append(out, q)
		}
	}
	slices.SortStableFunc(out, func(a, b catalog.Question) int {
		ra, _ := results.Get(a.ID)
		rb, _ := results.Get(b.ID)
		return cmp.Compare(ra.Accuracy(), rb.Accuracy())
	})
	return out
}

func (e *Engine) shuffled(qs []catalog.Question) []catalog.Question {
	e.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs
}

// SelectOption answers the current question. The answer is recorded right
// away and revealed; further selections are ignored until the user moves.
func (e *Engine) SelectOption(ctx context.Context, option int) {
	e.mu.Lock()
	if e.status != Active || e.revealed || option < 0 || option >= catalog.OptionCount {
		e.mu.Unlock()
		return
	}
	q := e.questions[e.index]
	correct := q.IsCorrect(option)
	record := e.recordRevisits || !e.recorded[q.ID]

	e.selected = option
	e.revealed = true
	e.answered++
	if correct {
		e.correct++
	}
	e.recorded[q.ID] = true
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if record {
		e.progress.RecordAnswer(ctx, q.ID, correct)
	}
	e.notify(snap)
}

// Next moves to the next question, or finishes the session on the last one.
func (e *Engine) Next() {
	e.update(func() bool {
		if e.status != Active {
			return false
		}
		if e.index >= len(e.questions)-1 {
			e.status = SessionFinished
			e.logger.Info("study session finished", "mode", e.mode.String(), "answered", e.answered, "correct", e.correct)
			return true
		}
		e.index++
		e.clearSelectionLocked()
		return true
	})
}

// Previous moves back one question; no-op on the first one.
func (e *Engine) Previous() {
	e.update(func() bool {
		if e.status != Active || e.index == 0 {
			return false
		}
		e.index--
		e.clearSelectionLocked()
		return true
	})
}

func (e *Engine) clearSelectionLocked() {
	e.selected = -1
	e.revealed = false
}

func (e *Engine) update(fn func() bool) {
	e.mu.Lock()
	changed := fn()
	var snap State
	if changed {
		snap = e.snapshotLocked()
	}
	e.mu.Unlock()
	if changed {
		e.notify(snap)
	}
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() State {
	return State{
		Status:    e.status,
		Mode:      e.mode,
		Category:  e.category,
		Questions: slices.Clone(e.questions),
		Index:     e.index,
		Selected:  e.selected,
		Revealed:  e.revealed,
		Answered:  e.answered,
		Correct:   e.correct,
	}
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function unregisters it.
func (e *Engine) Subscribe(fn func(State)) (cancel func()) {
	e.subMu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs, id)
			e.subMu.Unlock()
		})
	}
}

func (e *Engine) notify(s State) {
	e.subMu.Lock()
	ids := slices.Sorted(maps.Keys(e.subs))
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.subs[id])
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
