package progress

import "github.com/examencivique/examencivique/internal/catalog"

// Overview summarizes all recorded progress.
type Overview struct {
	Answered    int // distinct questions attempted
	Attempts    int
	Correct     int
	Accuracy    float64
	Mastered    int
	ExamsTaken  int
	ExamsPassed int
	LastExam    *ExamResult
}

// Overview computes headline totals.
func (s *Store) Overview() Overview {
	d := s.Current()
	o := Overview{
		Answered:    d.QuestionResults.Len(),
		Attempts:    d.TotalAttempts(),
		Correct:     d.TotalCorrect(),
		Accuracy:    d.OverallAccuracy(),
		Mastered:    d.MasteredCount(),
		ExamsTaken:  len(d.ExamResults),
		ExamsPassed: d.ExamsPassedCount(),
	}
	if len(d.ExamResults) > 0 {
		last := d.ExamResults[0]
		o.LastExam = &last
	}
	return o
}

// ExamStats is the exam history of one level.
type ExamStats struct {
	Level          catalog.Level
	Taken          int
	Passed         int
	BestPercentage int
	Last           *ExamResult
}

// ExamStats summarizes the exams taken at a level.
func (s *Store) ExamStats(level catalog.Level) ExamStats {
	d := s.Current()
	st := ExamStats{Level: level}
	for _, e := range d.ExamResults {
		if e.Level != level {
			continue
		}
		if st.Last == nil {
			last := e
			st.Last = &last
		}
		st.Taken++
		if e.IsPassed {
			st.Passed++
		}
		st.BestPercentage = max(st.BestPercentage, e.ScorePercentage())
	}
	return st
}

// RecentExams returns up to n exams, most recent first.
func (s *Store) RecentExams(n int) []ExamResult {
	d := s.Current()
	if n < len(d.ExamResults) {
		return d.ExamResults[:n]
	}
	return d.ExamResults
}

// CategoryStat is the progress on one theme.
type CategoryStat struct {
	Category  catalog.Category
	Questions int
	Tried     int
	Mastered  int
	Accuracy  float64
}

// CategoryStats reports every theme in display order.
func (s *Store) CategoryStats(c *catalog.Catalog) []CategoryStat {
	d := s.Current()
	out := make([]CategoryStat, 0, len(catalog.AllCategories()))
	for _, cat := range catalog.AllCategories() {
		st := CategoryStat{Category: cat}
		var attempts, correct int
		for _, q := range c.ByCategory(cat) {
			st.Questions++
			r, ok := d.QuestionResults.Get(q.ID)
			if !ok {
				continue
			}
			st.Tried++
			attempts += r.Attempts
			correct += r.CorrectAttempts
			if r.IsMastered() {
				st.Mastered++
			}
		}
		if attempts > 0 {
			st.Accuracy = float64(correct) / float64(attempts)
		}
		out = append(out, st)
	}
	return out
}

// StudyCounts reports how many catalog questions are weak and how many
// were never answered.
func (s *Store) StudyCounts(c *catalog.Catalog) (weak, unanswered int) {
	d := s.Current()
	for _, id := range weakIDs(d.QuestionResults) {
		if _, ok := c.ByID(id); ok {
			weak++
		}
	}
	for _, q := range c.All() {
		if !d.QuestionResults.Has(q.ID) {
			unanswered++
		}
	}
	return weak, unanswered
}
