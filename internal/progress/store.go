package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/store"
)

// KV keys owned by this package.
const (
	Namespace = "progress."
	KeyData   = Namespace + "data"
)

// Store is the process-wide progress holder. Every mutation is serialized,
// written back to the KV before returning, and then broadcast to
// subscribers.
type Store struct {
	kv     store.KV
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	data Data

	subMu  sync.Mutex
	subs   map[int]func(Data)
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for answer timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore loads progress from kv. An absent, unreadable or malformed blob
// yields empty progress; only the log hears about it.
func NewStore(ctx context.Context, kv store.KV, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		subs:   make(map[int]func(Data)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) Data {
	raw, err := s.kv.Get(ctx, KeyData)
	if errors.Is(err, store.ErrNotFound) {
		return Data{}
	}
	if err != nil {
		s.logger.Warn("read progress", "error", err)
		return Data{}
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		s.logger.Warn("progress blob malformed, starting empty", "error", err, "bytes", len(raw))
		return Data{}
	}
	if n := d.normalize(); n > 0 {
		s.logger.Warn("dropped invalid question results", "count", n)
	}
	return d
}

// Current returns a snapshot of the latest progress.
func (s *Store) Current() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// RecordAnswer adds one attempt to a question, creating its result on the
// first answer.
func (s *Store) RecordAnswer(ctx context.Context, questionID string, correct bool) {
	s.mutate(ctx, func(d *Data) {
		r, _ := d.QuestionResults.Get(questionID)
		r.Attempts++
		if correct {
			r.CorrectAttempts++
		}
		r.LastAttemptTimestamp = s.now().UnixMilli()
		d.QuestionResults.set(questionID, r)
	})
}

// RecordExam prepends a result to the exam history.
func (s *Store) RecordExam(ctx context.Context, result ExamResult) {
	s.mutate(ctx, func(d *Data) {
		d.ExamResults = slices.Insert(d.ExamResults, 0, result)
	})
}

// Reset empties progress and removes everything persisted under the
// progress namespace.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.data = Data{}
	if err := s.kv.Clear(ctx, Namespace); err != nil {
		s.logger.Error("clear progress", "error", err)
	}
	snap := s.data.Clone()
	s.mu.Unlock()

	s.logger.Info("progress reset")
	s.notify(snap)
}

func (s *Store) mutate(ctx context.Context, fn func(*Data)) {
	s.mu.Lock()
	next := s.data.Clone()
	fn(&next)
	s.data = next
	s.persistLocked(ctx)
	snap := s.data.Clone()
	s.mu.Unlock()

	s.notify(snap)
}

// persistLocked writes the current data. A failed write leaves the in-memory
// state ahead of the KV until the next successful mutation.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.data)
	if err != nil {
		s.logger.Error("encode progress", "error", err)
		return
	}
	if err := s.kv.Set(ctx, KeyData, raw); err != nil {
		s.logger.Error("persist progress", "error", err)
	}
}

// Subscribe registers fn to receive a snapshot after every change. Callbacks
// run on the mutating goroutine, outside the store's lock. The returned
// function unregisters fn.
func (s *Store) Subscribe(fn func(Data)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(d Data) {
	s.subMu.Lock()
	ids := slices.Sorted(maps.Keys(s.subs))
	fns := make([]func(Data), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(d)
	}
}

// WeakQuestionIDs returns every unmastered question, lowest accuracy first.
// Equal accuracies keep the order in which questions were first answered.
func (s *Store) WeakQuestionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return weakIDs(s.data.QuestionResults)
}

func weakIDs(results Results) []string {
	type entry struct {
		id string
		r  QuestionResult
	}
	var weak []entry
	for id, r := range results.All() {
		if !r.IsMastered() {
			weak = append(weak, entry{id, r})
		}
	}
	slices.SortStableFunc(weak, func(a, b entry) int { return compareAccuracy(a.r, b.r) })

	ids := make([]string, len(weak))
	for i, e := range weak {
		ids[i] = e.id
	}
	return ids
}

// AccuracyForCategory pools answers over the attempted questions of one
// theme. It returns 0 when none were attempted.
func (s *Store) AccuracyForCategory(cat catalog.Category, c *catalog.Catalog) float64 {
	attempts, correct, _ := s.categoryTotals(cat, c)
	if attempts == 0 {
		return 0
	}
	return float64(correct) / float64(attempts)
}

// TriedCount counts the questions of a theme answered at least once.
func (s *Store) TriedCount(cat catalog.Category, c *catalog.Catalog) int {
	_, _, tried := s.categoryTotals(cat, c)
	return tried
}

func (s *Store) categoryTotals(cat catalog.Category, c *catalog.Catalog) (attempts, correct, tried int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range c.ByCategory(cat) {
		r, ok := s.data.QuestionResults.Get(q.ID)
		if !ok {
			continue
		}
		attempts += r.Attempts
		correct += r.CorrectAttempts
		tried++
	}
	return attempts, correct, tried
}
