package study

import "github.com/examencivique/examencivique/internal/catalog"

// State is a read-only snapshot of a study session.
type State struct {
	Status    Status
	Mode      Mode
	Category  catalog.Category
	Questions []catalog.Question
	Index     int
	Selected  int // -1 until an option is picked
	Revealed  bool
	Answered  int // selections made this session
	Correct   int
}

func (s State) Total() int { return len(s.Questions) }

func (s State) CurrentQuestion() (catalog.Question, bool) {
	if s.Status != Active || s.Index >= len(s.Questions) {
		return catalog.Question{}, false
	}
	return s.Questions[s.Index], true
}

func (s State) IsLastQuestion() bool {
	return s.Index == len(s.Questions)-1
}

// IsCorrect reports whether the revealed selection is right.
func (s State) IsCorrect() bool {
	q, ok := s.CurrentQuestion()
	return ok && s.Revealed && q.IsCorrect(s.Selected)
}

// ProgressFraction is the position in the session, in (0, 1].
func (s State) ProgressFraction() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	if s.Status == SessionFinished {
		return 1
	}
	return float64(s.Index+1) / float64(len(s.Questions))
}
