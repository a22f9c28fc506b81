// Package progress persists per-question statistics and exam history.
package progress

import (
	"cmp"
	"fmt"
	"time"

	"github.com/examencivique/examencivique/internal/catalog"
)

// Mastery thresholds.
const (
	MasteryMinCorrect = 3
	// A question is mastered at 80% accuracy, compared as
	// correct*MasteryAccuracyDen >= attempts*MasteryAccuracyNum.
	MasteryAccuracyNum = 4
	MasteryAccuracyDen = 5
)

// QuestionResult aggregates every answer given to one question.
type QuestionResult struct {
	Attempts             int   `json:"attempts"`
	CorrectAttempts      int   `json:"correctAttempts"`
	LastAttemptTimestamp int64 `json:"lastAttemptTimestamp"` // unix millis
}

// Accuracy is the share of correct answers, 0 when never attempted.
func (r QuestionResult) Accuracy() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.CorrectAttempts) / float64(r.Attempts)
}

// IsMastered reports at least three correct answers at 80% accuracy or more.
// Integer arithmetic keeps the 0.8 boundary exact.
func (r QuestionResult) IsMastered() bool {
	return r.CorrectAttempts >= MasteryMinCorrect &&
		r.CorrectAttempts*MasteryAccuracyDen >= r.Attempts*MasteryAccuracyNum
}

// LastAttempt returns the time of the most recent answer.
func (r QuestionResult) LastAttempt() time.Time {
	return time.UnixMilli(r.LastAttemptTimestamp)
}

// compareAccuracy orders results by accuracy without float rounding. A
// zero-attempt result compares as accuracy 0.
func compareAccuracy(a, b QuestionResult) int {
	return cmp.Compare(
		a.CorrectAttempts*max(b.Attempts, 1),
		b.CorrectAttempts*max(a.Attempts, 1),
	)
}

// ExamResult is the immutable record of one submitted mock exam.
type ExamResult struct {
	ID              string        `json:"id"`
	Timestamp       int64         `json:"timestamp"` // unix millis
	Level           catalog.Level `json:"level"`
	Score           int           `json:"score"`
	TotalQuestions  int           `json:"totalQuestions"`
	IsPassed        bool          `json:"isPassed"`
	DurationSeconds int64         `json:"durationSeconds"`
}

// ScorePercentage returns the score as a truncated percentage.
func (e ExamResult) ScorePercentage() int {
	if e.TotalQuestions == 0 {
		return 0
	}
	return e.Score * 100 / e.TotalQuestions
}

// FormattedDuration renders the duration as "MM min SS s".
func (e ExamResult) FormattedDuration() string {
	return fmt.Sprintf("%02d min %02d s", e.DurationSeconds/60, e.DurationSeconds%60)
}

// Time returns the submission time.
func (e ExamResult) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Data is the whole persisted aggregate.
type Data struct {
	QuestionResults Results      `json:"questionResults"`
	ExamResults     []ExamResult `json:"examResults"` // most recent first
}

// Clone returns a deep copy.
func (d Data) Clone() Data {
	out := Data{QuestionResults: d.QuestionResults.clone()}
	if len(d.ExamResults) > 0 {
		out.ExamResults = append([]ExamResult(nil), d.ExamResults...)
	}
	return out
}

// TotalAttempts sums attempts over every question.
func (d Data) TotalAttempts() int {
	n := 0
	for _, r := range d.QuestionResults.All() {
		n += r.Attempts
	}
	return n
}

// TotalCorrect sums correct answers over every question.
func (d Data) TotalCorrect() int {
	n := 0
	for _, r := range d.QuestionResults.All() {
		n += r.CorrectAttempts
	}
	return n
}

// OverallAccuracy is the pooled accuracy over all answers.
func (d Data) OverallAccuracy() float64 {
	total := d.TotalAttempts()
	if total == 0 {
		return 0
	}
	return float64(d.TotalCorrect()) / float64(total)
}

// MasteredCount counts mastered questions.
func (d Data) MasteredCount() int {
	n := 0
	for _, r := range d.QuestionResults.All() {
		if r.IsMastered() {
			n++
		}
	}
	return n
}

// ExamsPassedCount counts passed exams.
func (d Data) ExamsPassedCount() int {
	n := 0
	for _, e := range d.ExamResults {
		if e.IsPassed {
			n++
		}
	}
	return n
}

// normalize drops entries that break the result invariants and reports how
// many were removed.
func (d *Data) normalize() int {
	removed := 0
	for _, id := range d.QuestionResults.IDs() {
		r, _ := d.QuestionResults.Get(id)
		if r.Attempts < 1 || r.CorrectAttempts < 0 {
			d.QuestionResults.remove(id)
			removed++
			continue
		}
		if r.CorrectAttempts > r.Attempts {
			r.CorrectAttempts = r.Attempts
			d.QuestionResults.set(id, r)
		}
	}
	return removed
}
