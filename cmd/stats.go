package cmd

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/i18n"
	"github.com/examencivique/examencivique/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study and exam statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		n, _ := cmd.Flags().GetInt("exams")
		printStats(cmd.OutOrStdout(), e.progress, e.catalog, e.lang.Language(), n)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("exams", 10, "Number of recent exams to list")
}

func printStats(w io.Writer, p *progress.Store, c *catalog.Catalog, lang i18n.Language, recent int) {
	o := p.Overview()
	fmt.Fprintf(w, "Questions answered: %d/%d\n", o.Answered, c.Len())
	fmt.Fprintf(w, "Attempts:           %d (%d correct, %s)\n", o.Attempts, o.Correct, percent(o.Accuracy))
	fmt.Fprintf(w, "Mastered:           %d\n", o.Mastered)
	fmt.Fprintf(w, "Exams:              %d taken, %d passed\n", o.ExamsTaken, o.ExamsPassed)
	fmt.Fprintln(w)

	cats := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Category", "Questions", "Tried", "Mastered", "Accuracy")
	for _, st := range p.CategoryStats(c) {
		acc := "-"
		if st.Tried > 0 {
			acc = percent(st.Accuracy)
		}
		cats.Row(st.Category.DisplayName(lang),
			strconv.Itoa(st.Questions), strconv.Itoa(st.Tried), strconv.Itoa(st.Mastered), acc)
	}
	fmt.Fprintln(w, cats.String())

	exams := p.RecentExams(recent)
	if len(exams) == 0 {
		fmt.Fprintln(w, "No exams yet.")
		return
	}
	hist := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Level", "Score", "Result", "Duration")
	for _, ex := range exams {
		verdict := "failed"
		if ex.IsPassed {
			verdict = "passed"
		}
		hist.Row(ex.Time().Local().Format("2006-01-02 15:04"), ex.Level.ShortName(),
			fmt.Sprintf("%d/%d (%d%%)", ex.Score, ex.TotalQuestions, ex.ScorePercentage()),
			verdict, ex.FormattedDuration())
	}
	fmt.Fprintln(w, hist.String())
}

func percent(f float64) string {
	return fmt.Sprintf("%d%%", int(f*100))
}
