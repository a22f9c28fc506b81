package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examencivique/examencivique/internal/i18n"
)

func TestEmbeddedBank_SupportsFullExamAtEveryLevel(t *testing.T) {
	c, rep := LoadWithReport(Embedded(), nil)
	require.NoError(t, rep.Err)
	require.NoError(t, rep.OverlayErr)
	assert.Empty(t, rep.Dropped, "embedded bank has invalid records")
	assert.Zero(t, rep.Unmatched, "embedded overlay references unknown ids")

	for _, l := range AllLevels() {
		assert.True(t, c.CanStartExam(l), "level %s: knowledge=%d situational=%d",
			l, len(c.Knowledge(l)), len(c.Situational(l)))
	}
	for _, cat := range AllCategories() {
		assert.NotEmpty(t, c.ByCategory(cat), "category %s has no questions", cat)
	}
	assert.Positive(t, rep.Translated)
}

const validRecord = `{
	"id": "q1", "category": "institutions", "levels": ["CSP"], "type": "connaissance",
	"question": "Q?", "options": ["a", "b", "c", "d"], "correct_index": 2, "explanation": "because"
}`

func TestLoad_DropsInvalidRecords(t *testing.T) {
	doc := `[
		` + validRecord + `,
		{"id": "bad-cat", "category": "sport", "levels": ["CSP"], "type": "connaissance",
		 "question": "Q?", "options": ["a","b","c","d"], "correct_index": 0},
		{"id": "bad-index", "category": "institutions", "levels": ["CR"], "type": "situation",
		 "question": "Q?", "options": ["a","b","c","d"], "correct_index": 4},
		{"id": "three-options", "category": "institutions", "levels": ["CR"], "type": "situation",
		 "question": "Q?", "options": ["a","b","c"], "correct_index": 0},
		{"id": "no-levels", "category": "institutions", "levels": [], "type": "situation",
		 "question": "Q?", "options": ["a","b","c","d"], "correct_index": 0},
		{"id": "bad-level", "category": "institutions", "levels": ["XX"], "type": "situation",
		 "question": "Q?", "options": ["a","b","c","d"], "correct_index": 0},
		{"id": "bad-type", "category": "institutions", "levels": ["CR"], "type": "quiz",
		 "question": "Q?", "options": ["a","b","c","d"], "correct_index": 0},
		` + validRecord + `,
		{"id": "q2", "category": "vie_en_france", "levels": ["CSP", "CR"], "type": "situation",
		 "question": "Q2?", "options": ["a","b","c","d"], "correct_index": 0, "explanation": null}
	]`

	c, rep := LoadWithReport(Bytes("test", []byte(doc), nil), nil)
	require.NoError(t, rep.Err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, rep.Loaded)
	require.Len(t, rep.Dropped, 7)

	ids := make([]string, len(rep.Dropped))
	for i, d := range rep.Dropped {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"bad-cat", "bad-index", "three-options", "no-levels", "bad-level", "bad-type", "q1"}, ids)
	assert.Equal(t, "duplicate id", rep.Dropped[6].Reason)

	q, ok := c.ByID("q1")
	require.True(t, ok)
	assert.Equal(t, CategoryInstitutions, q.Category)
	assert.Equal(t, []Level{LevelCSP}, q.Levels)
	assert.Equal(t, TypeKnowledge, q.Type)
	assert.Equal(t, "c", q.CorrectAnswer())
	assert.Equal(t, "because", q.Explanation)
	assert.Nil(t, q.Translation)

	q2, _ := c.ByID("q2")
	assert.Empty(t, q2.Explanation)
}

func TestLoad_UnusableSourceYieldsEmptyCatalog(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"not json", Bytes("garbage", []byte("{{{"), nil)},
		{"not an array", Bytes("object", []byte(`{"id": "q1"}`), nil)},
		{"read error", Source{Name: "broken", ReadQuestions: func() ([]byte, error) { return nil, errors.New("boom") }}},
		{"missing file", Files(filepath.Join(t.TempDir(), "nope.json"), "")},
		{"no reader", Source{Name: "nil"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rep := LoadWithReport(tt.src, nil)
			require.NotNil(t, c)
			assert.Error(t, rep.Err)
			assert.Zero(t, c.Len())
			assert.Empty(t, c.All())
			assert.Empty(t, c.Knowledge(LevelCSP))
			assert.False(t, c.CanStartExam(LevelCSP))
		})
	}
}

func TestLoad_OverlayMerge(t *testing.T) {
	overlay := `[
		{"id": "q1", "question": "问题？", "options": ["甲", "乙", "丙", "丁"]},
		{"id": "ghost", "question": "无对应"},
		{"id": 42}
	]`
	c, rep := LoadWithReport(Bytes("test", []byte("["+validRecord+"]"), []byte(overlay)), nil)
	require.NoError(t, rep.Err)
	require.NoError(t, rep.OverlayErr)
	assert.Equal(t, 1, rep.Translated)
	assert.Equal(t, 1, rep.Unmatched)

	q, _ := c.ByID("q1")
	require.NotNil(t, q.Translation)

	zh := q.Localized(i18n.ZH)
	assert.Equal(t, "问题？", zh.Text)
	assert.Equal(t, []string{"甲", "乙", "丙", "丁"}, zh.Options)
	// No translated explanation: falls back to French.
	assert.Equal(t, "because", zh.Explanation)

	fr := q.Localized(i18n.FR)
	assert.Equal(t, "Q?", fr.Text)
}

func TestLoad_MalformedOverlayKeepsQuestions(t *testing.T) {
	c, rep := LoadWithReport(Bytes("test", []byte("["+validRecord+"]"), []byte("nope")), nil)
	require.NoError(t, rep.Err)
	assert.Error(t, rep.OverlayErr)
	assert.Equal(t, 1, c.Len())

	q, _ := c.ByID("q1")
	assert.Nil(t, q.Translation)
	assert.Equal(t, "Q?", q.Localized(i18n.ZH).Text)
}

func TestFiles_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	qPath := filepath.Join(dir, "q.json")
	tPath := filepath.Join(dir, "zh.json")
	require.NoError(t, os.WriteFile(qPath, []byte("["+validRecord+"]"), 0o644))
	require.NoError(t, os.WriteFile(tPath, []byte(`[{"id":"q1","question":"问题？"}]`), 0o644))

	c := Load(Files(qPath, tPath), nil)
	require.Equal(t, 1, c.Len())
	q, _ := c.ByID("q1")
	assert.Equal(t, "问题？", q.Localized(i18n.ZH).Text)
}
