package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/i18n"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Inspect the question bank",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		category, _ := cmd.Flags().GetString("category")
		typ, _ := cmd.Flags().GetString("type")
		f, err := parseFilter(level, category, typ)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		listQuestions(cmd.OutOrStdout(), f.apply(e.catalog), e.lang.Language())
		return nil
	},
}

var questionsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the question bank and report exam readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if !checkQuestions(cmd.OutOrStdout(), e.catalog, e.report) {
			return fmt.Errorf("question bank %s is not usable for every level", e.report.Source)
		}
		return nil
	},
}

func init() {
	questionsListCmd.Flags().String("level", "", "Only questions of this level (CSP, CR)")
	questionsListCmd.Flags().String("category", "", "Only questions of this category key")
	questionsListCmd.Flags().String("type", "", "Only questions of this type (connaissance, situation)")

	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsCheckCmd)
}

type questionFilter struct {
	level    catalog.Level
	category catalog.Category
	typ      catalog.QuestionType
}

// parseFilter validates the list flags. Empty values match everything.
func parseFilter(level, category, typ string) (questionFilter, error) {
	var f questionFilter
	if level != "" {
		l, ok := catalog.ParseLevel(level)
		if !ok {
			return f, fmt.Errorf("unknown level %q", level)
		}
		f.level = l
	}
	if category != "" {
		c, ok := catalog.ParseCategory(category)
		if !ok {
			return f, fmt.Errorf("unknown category %q", category)
		}
		f.category = c
	}
	if typ != "" {
		t, ok := catalog.ParseType(typ)
		if !ok {
			return f, fmt.Errorf("unknown question type %q", typ)
		}
		f.typ = t
	}
	return f, nil
}

func (f questionFilter) apply(c *catalog.Catalog) []catalog.Question {
	var out []catalog.Question
	for _, q := range c.All() {
		if f.level != "" && !q.IsForLevel(f.level) {
			continue
		}
		if f.category != "" && q.Category != f.category {
			continue
		}
		if f.typ != "" && q.Type != f.typ {
			continue
		}
		out = append(out, q)
	}
	return out
}

func listQuestions(w io.Writer, qs []catalog.Question, lang i18n.Language) {
	for _, q := range qs {
		loc := q.Localized(lang)
		fmt.Fprintf(w, "%s  [%s] %s\n", q.ID, q.Type.DisplayName(lang), q.Category.DisplayName(lang))
		fmt.Fprintf(w, "  %s\n", loc.Text)
		for i, opt := range loc.Options {
			mark := " "
			if q.IsCorrect(i) {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %c) %s\n", mark, 'a'+i, opt)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d questions\n", len(qs))
}

// checkQuestions prints the load report and the pool sizes per level. It
// reports false when the bank failed to load or a level cannot produce a
// full exam.
func checkQuestions(w io.Writer, c *catalog.Catalog, rep catalog.Report) bool {
	fmt.Fprintf(w, "Source: %s\n", rep.Source)
	if rep.Err != nil {
		fmt.Fprintf(w, "Error: %v\n", rep.Err)
		return false
	}
	fmt.Fprintf(w, "Loaded: %d questions, %d dropped\n", rep.Loaded, len(rep.Dropped))
	for _, d := range rep.Dropped {
		id := d.ID
		if id == "" {
			id = "?"
		}
		fmt.Fprintf(w, "  #%d %s: %s\n", d.Index, id, d.Reason)
	}
	if rep.OverlayErr != nil {
		fmt.Fprintf(w, "Translations: unavailable (%v)\n", rep.OverlayErr)
	} else {
		fmt.Fprintf(w, "Translations: %d matched, %d unmatched\n", rep.Translated, rep.Unmatched)
	}
	fmt.Fprintln(w)

	ok := true
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Level", "Knowledge", "Situational", "Exam")
	for _, l := range catalog.AllLevels() {
		k, s := len(c.Knowledge(l)), len(c.Situational(l))
		status := "ready"
		switch {
		case k+s == 0:
			status = "unavailable"
			ok = false
		case !c.CanStartExam(l):
			status = fmt.Sprintf("short (%d/%d)", k+s, catalog.QuestionsPerExam)
			ok = false
		}
		t.Row(l.ShortName(),
			fmt.Sprintf("%d/%d", k, catalog.KnowledgePerExam),
			fmt.Sprintf("%d/%d", s, catalog.SituationalPerExam),
			status)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d questions total\n", c.Len())
	return ok
}
