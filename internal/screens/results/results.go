// Package results shows the outcome of a submitted mock exam.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/exam"
	"github.com/examencivique/examencivique/internal/progress"
	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/ui/components"
	"github.com/examencivique/examencivique/internal/ui/layout"
	"github.com/examencivique/examencivique/internal/ui/theme"
)

// ResultsScreen is the score card of the last exam, with an optional list
// of the missed questions.
type ResultsScreen struct {
	deps      *screen.Deps
	result    progress.ExamResult
	hasResult bool
	review    exam.Review
	missed    []exam.ReviewItem

	showReview bool
	offset     int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New captures the engine's last result. The screen keeps its copy even if
// another exam is started later.
func New(deps *screen.Deps) *ResultsScreen {
	r := &ResultsScreen{deps: deps}
	r.result, r.hasResult = deps.Exam.Result()
	r.review, _ = deps.Exam.Review()
	for _, item := range r.review.Items {
		if !item.Correct {
			r.missed = append(r.missed, item)
		}
	}
	return r
}

func (r *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return r, nil
	}
	switch key.String() {
	case "enter":
		return r, func() tea.Msg { return router.PopToRootMsg{} }
	case "v", "tab":
		r.showReview = !r.showReview
		r.offset = 0
	case "up", "k":
		if r.showReview && r.offset > 0 {
			r.offset--
		}
	case "down", "j":
		if r.showReview && r.offset < len(r.missed)-1 {
			r.offset++
		}
	}
	return r, nil
}

func (r *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	if r.showReview {
		body = r.reviewView(cw, height)
	} else {
		body = r.summaryView(cw)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (r *ResultsScreen) summaryView(cw int) string {
	s := r.deps.S()
	if !r.hasResult {
		return components.Banner(s.ExamNoHistory, cw, theme.TextDim)
	}
	res := r.result

	verdict, verdictColor := s.ResultFailed, theme.Error
	if res.IsPassed {
		verdict, verdictColor = s.ResultPassed, theme.Success
	}
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.BgDark).
		Background(verdictColor).
		Padding(0, 3).
		Render(verdict)

	passMark := exam.PassMark(res.TotalQuestions, r.deps.Exam.PassRatio())
	summary := strings.Join([]string{
		lipgloss.NewStyle().Foreground(verdictColor).Bold(true).Render(
			fmt.Sprintf(s.ResultScoreF, res.Score, res.TotalQuestions, res.ScorePercentage())),
		theme.Hint.Render(fmt.Sprintf(s.ResultPassMarkF, passMark)),
		theme.Hint.Render(s.ResultDuration + " : " + res.FormattedDuration()),
	}, "\n")

	if res.DurationSeconds >= exam.DurationSeconds {
		summary += "\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render("⏱ "+s.ExamTimeUp)
	}

	sections := []string{
		components.Centered(banner, cw),
		components.Centered(summary, cw),
	}
	if len(r.review.Breakdown) > 0 {
		sections = append(sections, components.Card(r.breakdownView(cw-6), cw))
	}
	return strings.Join(sections, "\n\n")
}

func (r *ResultsScreen) breakdownView(w int) string {
	s := r.deps.S()
	lang := r.deps.Language()
	lines := []string{theme.Subtitle.Render(s.ResultBreakdown)}
	for _, cs := range r.review.Breakdown {
		ratio := 0.0
		if cs.Total > 0 {
			ratio = float64(cs.Correct) / float64(cs.Total)
		}
		label := fmt.Sprintf("%-24s %2d/%-2d", truncate(cs.Category.DisplayName(lang), 24), cs.Correct, cs.Total)
		bar := components.NewProgressBar(label, ratio, false, w)
		bar.Fill = theme.Hex(cs.Category.Color())
		lines = append(lines, bar.View())
	}
	return strings.Join(lines, "\n")
}

// reviewView lists the missed questions from offset, as many as fit.
func (r *ResultsScreen) reviewView(cw, height int) string {
	s := r.deps.S()
	lang := r.deps.Language()
	header := theme.Title.Render(fmt.Sprintf("%s (%d)", s.ResultReview, len(r.missed)))
	if len(r.missed) == 0 {
		return header + "\n\n" + theme.Correct.Render("✓")
	}

	var cards []string
	used := lipgloss.Height(header) + 2
	for _, item := range r.missed[r.offset:] {
		loc := item.Question.Localized(lang)
		yours := s.ResultNoAnswer
		if item.Chosen >= 0 && item.Chosen < len(loc.Options) {
			yours = loc.Options[item.Chosen]
		}
		content := strings.Join([]string{
			theme.Body.Width(cw - 6).Render(loc.Text),
			theme.Incorrect.Render("✗ " + fmt.Sprintf(s.ResultYourF, yours)),
			theme.Correct.Render("✓ " + fmt.Sprintf(s.CorrectAnswerIsF, loc.Options[item.Question.CorrectIndex])),
		}, "\n")
		card := components.Card(content, cw)
		h := lipgloss.Height(card)
		if len(cards) > 0 && used+h > height {
			break
		}
		cards = append(cards, card)
		used += h
	}
	return header + "\n\n" + strings.Join(cards, "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func (r *ResultsScreen) Title() string {
	return r.deps.S().ResultsTitle
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	s := r.deps.S()
	hints := []layout.KeyHint{{Key: "v", Description: s.ResultReview}}
	if r.showReview {
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: s.KeyNavigate})
	}
	return append(hints, layout.KeyHint{Key: "Enter", Description: s.KeyContinue})
}
