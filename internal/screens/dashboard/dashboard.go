// Package dashboard shows accumulated progress and the settings that go
// with it.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/progress"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/ui/components"
	"github.com/examencivique/examencivique/internal/ui/layout"
	"github.com/examencivique/examencivique/internal/ui/theme"
)

// RecentExamCount is how many exams the history lists.
const RecentExamCount = 10

// DashboardScreen shows the overview, per-theme stats and exam history.
type DashboardScreen struct {
	deps       *screen.Deps
	confirming bool
	notice     string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.EscHandler = (*DashboardScreen)(nil)

// New creates the dashboard.
func New(deps *screen.Deps) *DashboardScreen {
	return &DashboardScreen{deps: deps}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

// HandlesEsc claims Esc only while the reset prompt is open.
func (d *DashboardScreen) HandlesEsc() bool {
	return d.confirming
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return d, nil
	}
	ctx := context.Background()

	if d.confirming {
		switch key.String() {
		case "y", "o":
			d.deps.Progress.Reset(ctx)
			d.notice = d.deps.S().ResetDone
			d.confirming = false
		case "n", "esc":
			d.confirming = false
		}
		return d, nil
	}

	switch key.String() {
	case "r":
		d.confirming = true
		d.notice = ""
	case "l":
		// A failed save is logged by the manager; the switch still applies.
		_ = d.deps.Lang.Set(ctx, d.deps.Language().Toggle())
		d.notice = ""
	}
	return d, nil
}

func (d *DashboardScreen) View(width, height int) string {
	s := d.deps.S()
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	sections := []string{
		theme.Title.Width(cw).Render(s.ProgressTitle),
		components.Card(d.overview(d.deps.Progress.Overview()), cw),
		components.Card(d.categories(cw-6), cw),
	}
	if !compact {
		sections = append(sections, components.Card(d.history(), cw))
	}
	sections = append(sections, theme.Hint.Render(fmt.Sprintf(s.LanguageF, d.deps.Language().Label())))

	switch {
	case d.confirming:
		sections = append(sections, components.Banner(s.ResetConfirm, cw, theme.Warning))
	case d.notice != "":
		sections = append(sections, components.Banner(d.notice, cw, theme.Success))
	}

	block := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

func (d *DashboardScreen) overview(o progress.Overview) string {
	s := d.deps.S()
	stat := func(label string, value string) string {
		return theme.Hint.Render(label+" ") + lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(value)
	}
	rows := []string{
		theme.Subtitle.Render(s.Overview),
		stat(s.StatAnswered, fmt.Sprintf("%d/%d", o.Answered, d.deps.Catalog.Len())) + "   " +
			stat(s.StatAttempts, fmt.Sprint(o.Attempts)),
		stat(s.StatAccuracy, fmt.Sprintf("%d%%", int(o.Accuracy*100))) + "   " +
			stat(s.StatMastered, fmt.Sprint(o.Mastered)),
		stat(s.StatExamsTaken, fmt.Sprint(o.ExamsTaken)) + "   " +
			stat(s.StatPassed, fmt.Sprint(o.ExamsPassed)),
	}
	return strings.Join(rows, "\n")
}

func (d *DashboardScreen) categories(w int) string {
	s := d.deps.S()
	lang := d.deps.Language()
	lines := []string{theme.Subtitle.Render(s.Categories)}
	for _, st := range d.deps.Progress.CategoryStats(d.deps.Catalog) {
		name := lipgloss.NewStyle().Foreground(theme.Hex(st.Category.Color())).Bold(true).
			Render(st.Category.DisplayName(lang))
		detail := theme.Hint.Render(fmt.Sprintf(s.CategoryRowF, st.Tried, st.Questions, st.Mastered))
		bar := components.NewProgressBar("", st.Accuracy, true, w)
		bar.Fill = theme.Ratio(st.Accuracy)
		if st.Tried == 0 {
			bar.Fill = theme.Border
		}
		lines = append(lines, name+"  "+detail, bar.View())
	}
	return strings.Join(lines, "\n")
}

func (d *DashboardScreen) history() string {
	s := d.deps.S()
	lines := []string{theme.Subtitle.Render(s.RecentExams)}
	exams := d.deps.Progress.RecentExams(RecentExamCount)
	if len(exams) == 0 {
		return strings.Join(append(lines, theme.Hint.Render(s.NoExams)), "\n")
	}
	for _, e := range exams {
		lines = append(lines, examRow(s.ExamRowF, s.PassedShort, s.FailedShort, e))
	}
	return strings.Join(lines, "\n")
}

func examRow(format, passed, failed string, e progress.ExamResult) string {
	verdict, style := failed, theme.Incorrect
	if e.IsPassed {
		verdict, style = passed, theme.Correct
	}
	row := fmt.Sprintf(format,
		e.Time().Local().Format(time.DateOnly),
		e.Level.ShortName(),
		e.Score, e.TotalQuestions,
		e.ScorePercentage(),
		e.FormattedDuration(),
		verdict,
	)
	return style.Render(row)
}

func (d *DashboardScreen) Title() string {
	return d.deps.S().ProgressTitle
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	s := d.deps.S()
	if d.confirming {
		return []layout.KeyHint{
			{Key: "y/o", Description: s.KeyConfirm},
			{Key: "n/Esc", Description: s.KeyCancel},
		}
	}
	return []layout.KeyHint{
		{Key: "r", Description: s.ResetProgress},
		{Key: "l", Description: s.ToggleLanguage},
		{Key: "Esc", Description: s.KeyBack},
	}
}
