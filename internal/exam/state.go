package exam

import (
	"fmt"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/progress"
)

// Status is the lifecycle position of an exam.
type Status int

const (
	NotStarted Status = iota
	Running
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is a read-only snapshot of an exam.
type State struct {
	Status           Status
	Level            catalog.Level
	Questions        []catalog.Question
	Index            int
	Answers          map[string]int // question id -> chosen option
	RemainingSeconds int
	Result           *progress.ExamResult // set once Finished
}

// Total returns the number of questions in the exam.
func (s State) Total() int { return len(s.Questions) }

// CurrentQuestion returns the question at Index.
func (s State) CurrentQuestion() (catalog.Question, bool) {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return catalog.Question{}, false
	}
	return s.Questions[s.Index], true
}

// Answer returns the chosen option for a question.
func (s State) Answer(questionID string) (int, bool) {
	i, ok := s.Answers[questionID]
	return i, ok
}

// AnsweredCount counts questions with a chosen option.
func (s State) AnsweredCount() int {
	n := 0
	for _, q := range s.Questions {
		if _, ok := s.Answers[q.ID]; ok {
			n++
		}
	}
	return n
}

// Unanswered returns the positions of questions without an answer.
func (s State) Unanswered() []int {
	var out []int
	for i, q := range s.Questions {
		if _, ok := s.Answers[q.ID]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// FormattedTime renders the remaining time as MM:SS.
func (s State) FormattedTime() string {
	r := max(s.RemainingSeconds, 0)
	return fmt.Sprintf("%02d:%02d", r/60, r%60)
}

// TimeCritical reports five minutes or less remaining. It is a display hint
// only.
func (s State) TimeCritical() bool {
	return s.Status == Running && s.RemainingSeconds <= CriticalSeconds
}

// AnsweredFraction is the share of questions answered, in [0, 1].
func (s State) AnsweredFraction() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return float64(s.AnsweredCount()) / float64(len(s.Questions))
}
