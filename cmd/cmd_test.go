package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/i18n"
	"github.com/examencivique/examencivique/internal/progress"
	"github.com/examencivique/examencivique/internal/screen/screentest"
	"github.com/examencivique/examencivique/internal/store"
)

// run executes the command tree against a database in dir.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("EXAMCIVIQUE_LOG", filepath.Join(dir, "test.log"))
	t.Setenv("EXAMCIVIQUE_DB", "")
	t.Setenv("EXAMCIVIQUE_QUESTIONS", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--db", filepath.Join(dir, "test.db")}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLangCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "lang")
	require.NoError(t, err)
	assert.Contains(t, out, "fr (Français)")

	_, err = run(t, dir, "", "lang", "zh")
	require.NoError(t, err)
	out, err = run(t, dir, "", "lang")
	require.NoError(t, err)
	assert.Contains(t, out, "zh (中文)")

	_, err = run(t, dir, "", "lang", "de")
	assert.Error(t, err)
}

func TestAccountCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "secret123\n", "account", "register", "Lea@Exemple.fr")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as lea@exemple.fr")

	out, err = run(t, dir, "", "account", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "lea@exemple.fr")

	_, err = run(t, dir, "", "account", "logout")
	require.NoError(t, err)
	out, err = run(t, dir, "", "account", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	_, err = run(t, dir, "mauvais\n", "account", "login", "lea@exemple.fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mot de passe incorrect")
}

func TestResetCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	p := progress.NewStore(context.Background(), st, nil)
	p.RecordAnswer(context.Background(), "q1", true)
	require.NoError(t, st.Close())

	out, err := run(t, dir, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")

	out, err = run(t, dir, "oui\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress erased")

	st, err = store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, 0, progress.NewStore(context.Background(), st, nil).Overview().Answered)
}

func TestQuestionsCheckEmbedded(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "questions", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Source: embedded")
	assert.Contains(t, out, "ready")
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		level, category, typ string
		wantErr              bool
	}{
		{"", "", "", false},
		{"csp", "institutions", "situation", false},
		{"B1", "", "", true},
		{"", "cuisine", "", true},
		{"", "", "quiz", true},
	}
	for _, tt := range tests {
		_, err := parseFilter(tt.level, tt.category, tt.typ)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFilter(%q, %q, %q) error = %v, wantErr %v", tt.level, tt.category, tt.typ, err, tt.wantErr)
		}
	}
}

func TestFilterApply(t *testing.T) {
	c := screentest.Bank(10, 5)

	f, err := parseFilter("CR", "", "")
	require.NoError(t, err)
	assert.Len(t, f.apply(c), 3)

	f, err = parseFilter("CSP", "", "situation")
	require.NoError(t, err)
	assert.Len(t, f.apply(c), 5)

	f, err = parseFilter("", string(catalog.CategoryPrinciples), "connaissance")
	require.NoError(t, err)
	for _, q := range f.apply(c) {
		assert.Equal(t, catalog.CategoryPrinciples, q.Category)
		assert.Equal(t, catalog.TypeKnowledge, q.Type)
	}
}

func TestListQuestionsMarksAnswer(t *testing.T) {
	var out bytes.Buffer
	listQuestions(&out, screentest.Bank(1, 0).ByLevel(catalog.LevelCSP), i18n.FR)

	assert.Contains(t, out.String(), "* c) charlie")
	assert.Contains(t, out.String(), "  a) alpha")
	assert.Contains(t, out.String(), "1 questions")
}

func TestCheckQuestionsShortPool(t *testing.T) {
	var out bytes.Buffer
	ok := checkQuestions(&out, screentest.Bank(catalog.KnowledgePerExam, catalog.SituationalPerExam),
		catalog.Report{Source: "test", Loaded: 43})

	assert.False(t, ok, "CR holds only 3 questions")
	assert.Contains(t, out.String(), "short (3/40)")

	out.Reset()
	assert.False(t, checkQuestions(&out, catalog.Empty(), catalog.Report{Source: "test", Err: assert.AnError}))
	assert.Contains(t, out.String(), "Error:")
}

func TestPrintStats(t *testing.T) {
	ctx := context.Background()
	p := progress.NewStore(ctx, store.NewMemory(), nil)
	c := screentest.Bank(4, 2)

	var out bytes.Buffer
	printStats(&out, p, c, i18n.FR, 10)
	assert.Contains(t, out.String(), "Questions answered: 0/9")
	assert.Contains(t, out.String(), "No exams yet.")

	p.RecordAnswer(ctx, "k-00", true)
	p.RecordExam(ctx, progress.ExamResult{ID: "e1", Level: catalog.LevelCSP, Score: 30, TotalQuestions: 40, IsPassed: false, DurationSeconds: 600})
	out.Reset()
	printStats(&out, p, c, i18n.FR, 10)
	assert.Contains(t, out.String(), "30/40 (75%)")
	assert.Contains(t, out.String(), "failed")
}

func TestConfirm(t *testing.T) {
	for in, want := range map[string]bool{"y\n": true, "Oui\n": true, "\n": false, "non\n": false, "": false} {
		var w bytes.Buffer
		if got := confirm(strings.NewReader(in), &w, "Sure?"); got != want {
			t.Errorf("confirm(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]i18n.Language{"fr": i18n.FR, "FR": i18n.FR, "zh": i18n.ZH, "中文": i18n.ZH} {
		got, err := parseLanguage(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLanguage("en")
	assert.Error(t, err)
}
