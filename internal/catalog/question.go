package catalog

import (
	"slices"

	"github.com/examencivique/examencivique/internal/i18n"
)

// OptionCount is the number of answer choices every question carries.
const OptionCount = 4

// Question is one immutable multiple-choice entry of the bank.
type Question struct {
	ID           string
	Category     Category
	Levels       []Level
	Type         QuestionType
	Text         string
	Options      []string
	CorrectIndex int
	Explanation  string

	// Translation is the secondary-language overlay, nil when absent.
	Translation *Translation
}

// Translation holds the overlay fields of a question. Empty fields fall back
// to the primary text.
type Translation struct {
	Text        string
	Options     []string
	Explanation string
}

// CorrectAnswer returns the text of the correct option in the primary
// language.
func (q Question) CorrectAnswer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// IsForLevel reports whether the question belongs to the level's pool.
func (q Question) IsForLevel(l Level) bool {
	return slices.Contains(q.Levels, l)
}

// IsCorrect reports whether option i is the right answer.
func (q Question) IsCorrect(i int) bool {
	return i == q.CorrectIndex
}

// Localized is the text of a question as displayed in one language.
type Localized struct {
	Text        string
	Options     []string
	Explanation string
}

// Localized returns the question in lang. Each field falls back to the
// primary language on its own, so a partial overlay still renders.
func (q Question) Localized(lang i18n.Language) Localized {
	out := Localized{
		Text:        q.Text,
		Options:     q.Options,
		Explanation: q.Explanation,
	}
	if lang == i18n.FR || q.Translation == nil {
		return out
	}
	t := q.Translation
	if t.Text != "" {
		out.Text = t.Text
	}
	if len(t.Options) == len(q.Options) {
		out.Options = t.Options
	}
	if t.Explanation != "" {
		out.Explanation = t.Explanation
	}
	return out
}
