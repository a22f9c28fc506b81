// Package exam runs the timed mock exam.
package exam

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/progress"
)

// Official timing and scoring.
const (
	DurationSeconds  = 45 * 60
	CriticalSeconds  = 5 * 60
	DefaultPassRatio = 0.8
)

// ErrNotAuthorized is returned by Start when sign-in is required and nobody
// is signed in.
var ErrNotAuthorized = errors.New("exam: sign-in required")

// Recorder receives the outcome of a submitted exam.
type Recorder interface {
	RecordAnswer(ctx context.Context, questionID string, correct bool)
	RecordExam(ctx context.Context, result progress.ExamResult)
}

// Gate decides whether a session may start.
type Gate interface {
	IsSignedIn() bool
}

// StartKind tells the caller what kind of exam Start produced.
type StartKind int

const (
	// Started is a full-size exam.
	Started StartKind = iota
	// InsufficientPool means the level's pools are below the official
	// composition. The exam still runs with whatever the pools hold.
	InsufficientPool
)

// StartResult describes the exam produced by Start.
type StartResult struct {
	Kind        StartKind
	Knowledge   int
	Situational int
}

// PassMark returns the minimum passing score for an exam of total
// questions: ceil(ratio * total). It is 32 for the 40-question exam. A
// ratio outside (0, 1], NaN included, is replaced by DefaultPassRatio.
func PassMark(total int, ratio float64) int {
	if !validRatio(ratio) {
		ratio = DefaultPassRatio
	}
	return int(math.Ceil(ratio*float64(total) - 1e-9))
}

func validRatio(r float64) bool { return r > 0 && r <= 1 }

// Engine is the exam state machine. It is safe for concurrent use; the
// countdown runs on its own goroutine.
type Engine struct {
	catalog   *catalog.Catalog
	recorder  Recorder
	logger    *slog.Logger
	clock     Clock
	rng       *rand.Rand
	gate      Gate
	passRatio float64
	newID     func() string

	mu        sync.Mutex
	status    Status
	level     catalog.Level
	questions []catalog.Question
	index     int
	answers   map[string]int
	remaining int
	startedAt time.Time
	result    *progress.ExamResult
	gen       int
	stop      func()

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithRand sets the random source used for sampling.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithGate requires g.IsSignedIn before an exam may start.
func WithGate(g Gate) Option { return func(e *Engine) { e.gate = g } }

// WithPassRatio overrides the 0.8 pass ratio. Values outside (0, 1] are
// ignored.
func WithPassRatio(r float64) Option {
	return func(e *Engine) {
		if validRatio(r) {
			e.passRatio = r
		}
	}
}

// WithIDGenerator overrides result id generation.
func WithIDGenerator(fn func() string) Option { return func(e *Engine) { e.newID = fn } }

// NewEngine creates an idle engine.
func NewEngine(c *catalog.Catalog, rec Recorder, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{
		catalog:   c,
		recorder:  rec,
		logger:    logger,
		clock:     SystemClock{},
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		passRatio: DefaultPassRatio,
		newID:     uuid.NewString,
		subs:      make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start draws a fresh exam for level and starts the 45-minute countdown.
// Any exam in progress is discarded without being recorded. An empty pool
// leaves the engine NotStarted and reports InsufficientPool.
func (e *Engine) Start(level catalog.Level) (StartResult, error) {
	if e.gate != nil && !e.gate.IsSignedIn() {
		return StartResult{}, ErrNotAuthorized
	}

	e.mu.Lock()
	e.cancelCountdownLocked()

	questions := GenerateExam(e.catalog, level, e.rng)
	res := StartResult{Kind: Started}
	for _, q := range questions {
		if q.Type == catalog.TypeKnowledge {
			res.Knowledge++
		} else {
			res.Situational++
		}
	}
	if !e.catalog.CanStartExam(level) {
		res.Kind = InsufficientPool
	}

	e.gen++
	e.level = level
	e.questions = questions
	e.index = 0
	e.answers = make(map[string]int)
	e.remaining = DurationSeconds
	e.result = nil

	if len(questions) == 0 {
		e.status = NotStarted
		snap := e.snapshotLocked()
		e.mu.Unlock()
		e.logger.Warn("exam not started, empty pool", "level", level)
		e.notify(snap)
		return res, nil
	}

	e.status = Running
	e.startedAt = e.clock.Now()
	e.startCountdownLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Info("exam started",
		"level", level,
		"questions", len(questions),
		"knowledge", res.Knowledge,
		"situational", res.Situational,
		"insufficient_pool", res.Kind == InsufficientPool,
	)
	e.notify(snap)
	return res, nil
}

func (e *Engine) startCountdownLocked() {
	ticker := e.clock.NewTicker(time.Second)
	done := make(chan struct{})
	var once sync.Once
	e.stop = func() { once.Do(func() { close(done) }) }

	gen := e.gen
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C():
				if !e.tick(gen) {
					return
				}
			}
		}
	}()
}

// cancelCountdownLocked stops the running countdown, if any. Safe to call
// repeatedly.
func (e *Engine) cancelCountdownLocked() {
	if e.stop != nil {
		e.stop()
		e.stop = nil
	}
}

// tick handles one second of countdown and reports whether the countdown
// should keep running.
func (e *Engine) tick(gen int) bool {
	e.mu.Lock()
	if e.gen != gen || e.status != Running {
		e.mu.Unlock()
		return false
	}
	e.remaining--
	if e.remaining > 0 {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		e.notify(snap)
		return true
	}
	e.mu.Unlock()

	e.logger.Info("exam time expired, submitting")
	e.submit(context.Background(), gen)
	return false
}

// SelectAnswer records option for the current question, replacing any
// earlier choice. Ignored unless the exam is running.
func (e *Engine) SelectAnswer(option int) {
	e.update(func() bool {
		if e.status != Running || e.index >= len(e.questions) {
			return false
		}
		if option < 0 || option >= catalog.OptionCount {
			return false
		}
		e.answers[e.questions[e.index].ID] = option
		return true
	})
}

// GoNext moves to the next question; no-op on the last one.
func (e *Engine) GoNext() { e.GoTo(e.currentIndex() + 1) }

// GoPrevious moves to the previous question; no-op on the first one.
func (e *Engine) GoPrevious() { e.GoTo(e.currentIndex() - 1) }

// GoTo jumps to position i; out-of-range positions are ignored.
func (e *Engine) GoTo(i int) {
	e.update(func() bool {
		if e.status != Running || i < 0 || i >= len(e.questions) || i == e.index {
			return false
		}
		e.index = i
		return true
	})
}

func (e *Engine) currentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// update applies fn under the lock and notifies subscribers when it reports
// a change.
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

// Submit scores the exam and records it. Only the first call on a running
// exam has any effect; later calls return the stored result with ok false.
func (e *Engine) Submit(ctx context.Context) (result progress.ExamResult, ok bool) {
	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()
	return e.submit(ctx, gen)
}

func (e *Engine) submit(ctx context.Context, gen int) (progress.ExamResult, bool) {
	e.mu.Lock()
	if e.status != Running || e.gen != gen {
		var prev progress.ExamResult
		if e.result != nil {
			prev = *e.result
		}
		e.mu.Unlock()
		return prev, false
	}
	e.status = Finished
	e.cancelCountdownLocked()

	now := e.clock.Now()
	questions := slices.Clone(e.questions)
	answers := maps.Clone(e.answers)

	score := 0
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && q.IsCorrect(a) {
			score++
		}
	}
	result := progress.ExamResult{
		ID:              e.newID(),
		Timestamp:       now.UnixMilli(),
		Level:           e.level,
		Score:           score,
		TotalQuestions:  len(questions),
		IsPassed:        score >= PassMark(len(questions), e.passRatio),
		DurationSeconds: int64(now.Sub(e.startedAt) / time.Second),
	}
	e.result = &result
	snap := e.snapshotLocked()
	e.mu.Unlock()

	for _, q := range questions {
		a, answered := answers[q.ID]
		e.recorder.RecordAnswer(ctx, q.ID, answered && q.IsCorrect(a))
	}
	e.recorder.RecordExam(ctx, result)

	e.logger.Info("exam submitted",
		"id", result.ID,
		"level", result.Level,
		"score", result.Score,
		"total", result.TotalQuestions,
		"passed", result.IsPassed,
		"duration_s", result.DurationSeconds,
	)
	e.notify(snap)
	return result, true
}

// Abort discards a running exam without recording anything.
func (e *Engine) Abort() {
	e.mu.Lock()
	if e.status != Running {
		e.mu.Unlock()
		return
	}
	e.cancelCountdownLocked()
	e.gen++
	level, answered := e.level, len(e.answers)
	e.resetLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Info("exam aborted", "level", level, "answered", answered)
	e.notify(snap)
}

// Close stops the countdown and drops any running exam. A finished exam's
// result stays readable. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelCountdownLocked()
	if e.status == Running {
		e.gen++
		e.resetLocked()
	}
}

func (e *Engine) resetLocked() {
	e.status = NotStarted
	e.questions = nil
	e.index = 0
	e.answers = nil
	e.remaining = DurationSeconds
	e.result = nil
}

// State returns a snapshot of the exam.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// PassRatio returns the share of correct answers needed to pass.
func (e *Engine) PassRatio() float64 { return e.passRatio }

// Result returns the result of the last submitted exam.
func (e *Engine) Result() (progress.ExamResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return progress.ExamResult{}, false
	}
	return *e.result, true
}

func (e *Engine) snapshotLocked() State {
	s := State{
		Status:           e.status,
		Level:            e.level,
		Questions:        slices.Clone(e.questions),
		Index:            e.index,
		Answers:          maps.Clone(e.answers),
		RemainingSeconds: e.remaining,
	}
	if e.result != nil {
		r := *e.result
		s.Result = &r
	}
	return s
}

// Subscribe registers fn to receive a snapshot after every change,
// including each countdown tick. Callbacks run outside the engine lock,
// possibly on the countdown goroutine.
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
