// Package catalog holds the question bank and its filtered views.
package catalog

import "slices"

// Official exam composition.
const (
	KnowledgePerExam   = 28
	SituationalPerExam = 12
	QuestionsPerExam   = KnowledgePerExam + SituationalPerExam
)

// Catalog is an immutable, ordered question bank. The zero value is an
// empty catalog.
type Catalog struct {
	questions []Question
	byID      map[string]int
}

// New builds a catalog in the given order and joins the overlay by question
// id. Overlay entries without a matching question are ignored.
func New(questions []Question, overlay map[string]Translation) *Catalog {
	c := &Catalog{
		questions: make([]Question, 0, len(questions)),
		byID:      make(map[string]int, len(questions)),
	}
	for _, q := range questions {
		if _, dup := c.byID[q.ID]; dup {
			continue
		}
		if t, ok := overlay[q.ID]; ok {
			q.Translation = &t
		}
		c.byID[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
	}
	return c
}

// Empty returns a catalog with no questions.
func Empty() *Catalog {
	return New(nil, nil)
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.questions)
}

// All returns every question in load order.
func (c *Catalog) All() []Question {
	if c == nil {
		return nil
	}
	return slices.Clone(c.questions)
}

// ByID looks up a question.
func (c *Catalog) ByID(id string) (Question, bool) {
	if c == nil {
		return Question{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// ByCategory returns the questions of one theme in load order.
func (c *Catalog) ByCategory(cat Category) []Question {
	return c.filter(func(q Question) bool { return q.Category == cat })
}

// ByLevel returns the questions tagged for a level in load order.
func (c *Catalog) ByLevel(l Level) []Question {
	return c.filter(func(q Question) bool { return q.IsForLevel(l) })
}

// Knowledge returns the knowledge questions of a level.
func (c *Catalog) Knowledge(l Level) []Question {
	return c.filter(func(q Question) bool { return q.Type == TypeKnowledge && q.IsForLevel(l) })
}

// Situational returns the situational questions of a level.
func (c *Catalog) Situational(l Level) []Question {
	return c.filter(func(q Question) bool { return q.Type == TypeSituational && q.IsForLevel(l) })
}

// CanStartExam reports whether a level's pools are large enough for a full
// exam.
func (c *Catalog) CanStartExam(l Level) bool {
	return len(c.Knowledge(l)) >= KnowledgePerExam && len(c.Situational(l)) >= SituationalPerExam
}

func (c *Catalog) filter(keep func(Question) bool) []Question {
	if c == nil {
		return nil
	}
	var out []Question
	for _, q := range c.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}
