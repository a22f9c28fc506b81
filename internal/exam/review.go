package exam

import "github.com/examencivique/examencivique/internal/catalog"

// ReviewItem is one question of a finished exam.
type ReviewItem struct {
	Question catalog.Question
	Chosen   int // -1 when unanswered
	Correct  bool
}

// CategoryScore is the score on one theme.
type CategoryScore struct {
	Category catalog.Category
	Correct  int
	Total    int
}

// Review is the corrected copy of a finished exam.
type Review struct {
	Items     []ReviewItem
	Breakdown []CategoryScore // themes in display order, empty ones omitted
}

// Review returns the corrected exam once it is finished.
func (e *Engine) Review() (Review, bool) {
	s := e.State()
	if s.Status != Finished {
		return Review{}, false
	}
	return BuildReview(s.Questions, s.Answers), true
}

// BuildReview corrects questions against answers.
func BuildReview(questions []catalog.Question, answers map[string]int) Review {
	var r Review
	byCat := make(map[catalog.Category]*CategoryScore)
	for _, q := range questions {
		chosen, ok := answers[q.ID]
		if !ok {
			chosen = -1
		}
		item := ReviewItem{Question: q, Chosen: chosen, Correct: ok && q.IsCorrect(chosen)}
		r.Items = append(r.Items, item)

		cs := byCat[q.Category]
		if cs == nil {
			cs = &CategoryScore{Category: q.Category}
			byCat[q.Category] = cs
		}
		cs.Total++
		if item.Correct {
			cs.Correct++
		}
	}
	for _, cat := range catalog.AllCategories() {
		if cs, ok := byCat[cat]; ok {
			r.Breakdown = append(r.Breakdown, *cs)
		}
	}
	return r
}
