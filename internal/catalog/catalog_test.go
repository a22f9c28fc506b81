package catalog

import (
	"slices"
	"testing"

	"github.com/examencivique/examencivique/internal/i18n"
)

func q(id string, cat Category, typ QuestionType, levels ...Level) Question {
	return Question{
		ID:           id,
		Category:     cat,
		Levels:       levels,
		Type:         typ,
		Text:         "text " + id,
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 1,
	}
}

func testCatalog() *Catalog {
	return New([]Question{
		q("k1", CategoryInstitutions, TypeKnowledge, LevelCSP, LevelCR),
		q("k2", CategoryHistory, TypeKnowledge, LevelCR),
		q("s1", CategoryInstitutions, TypeSituational, LevelCSP),
		q("s2", CategoryLiving, TypeSituational, LevelCSP, LevelCR),
		q("k3", CategoryInstitutions, TypeKnowledge, LevelCSP),
	}, nil)
}

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestFilters(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name string
		got  []Question
		want []string
	}{
		{"All", c.All(), []string{"k1", "k2", "s1", "s2", "k3"}},
		{"ByCategory institutions", c.ByCategory(CategoryInstitutions), []string{"k1", "s1", "k3"}},
		{"ByCategory principles", c.ByCategory(CategoryPrinciples), nil},
		{"ByLevel CR", c.ByLevel(LevelCR), []string{"k1", "k2", "s2"}},
		{"Knowledge CSP", c.Knowledge(LevelCSP), []string{"k1", "k3"}},
		{"Situational CSP", c.Situational(LevelCSP), []string{"s1", "s2"}},
		{"Situational CR", c.Situational(LevelCR), []string{"s2"}},
	}
	for _, tt := range tests {
		if got := ids(tt.got); !slices.Equal(got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAll_StableAndCopied(t *testing.T) {
	c := testCatalog()
	first := c.All()
	first[0].ID = "mutated"

	second := c.All()
	if second[0].ID != "k1" {
		t.Errorf("All()[0].ID = %q after caller mutation, want k1", second[0].ID)
	}
	if !slices.Equal(ids(second), ids(c.All())) {
		t.Error("All() order differs between calls")
	}
}

func TestNew_OverlayJoin(t *testing.T) {
	c := New(
		[]Question{q("k1", CategoryInstitutions, TypeKnowledge, LevelCSP), q("k2", CategoryHistory, TypeKnowledge, LevelCSP)},
		map[string]Translation{
			"k1":    {Text: "译文"},
			"ghost": {Text: "nobody"},
		},
	)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (overlay must not add questions)", c.Len())
	}
	k1, _ := c.ByID("k1")
	if k1.Translation == nil || k1.Translation.Text != "译文" {
		t.Errorf("k1 translation = %+v, want text 译文", k1.Translation)
	}
	k2, _ := c.ByID("k2")
	if k2.Translation != nil {
		t.Errorf("k2 translation = %+v, want nil", k2.Translation)
	}
	if _, ok := c.ByID("ghost"); ok {
		t.Error("ByID(ghost) found an overlay-only entry")
	}
}

func TestLocalized_PartialOverlay(t *testing.T) {
	base := q("k1", CategoryInstitutions, TypeKnowledge, LevelCSP)
	base.Explanation = "fr"

	tests := []struct {
		name string
		tr   *Translation
		lang i18n.Language
		text string
		opt0 string
		expl string
	}{
		{"french ignores overlay", &Translation{Text: "zh"}, i18n.FR, "text k1", "a", "fr"},
		{"no overlay", nil, i18n.ZH, "text k1", "a", "fr"},
		{"text only", &Translation{Text: "zh"}, i18n.ZH, "zh", "a", "fr"},
		{"wrong option count ignored", &Translation{Options: []string{"x"}}, i18n.ZH, "text k1", "a", "fr"},
		{"full", &Translation{Text: "zh", Options: []string{"w", "x", "y", "z"}, Explanation: "解释"}, i18n.ZH, "zh", "w", "解释"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qq := base
			qq.Translation = tt.tr
			got := qq.Localized(tt.lang)
			if got.Text != tt.text || got.Options[0] != tt.opt0 || got.Explanation != tt.expl {
				t.Errorf("Localized = {%q %q %q}, want {%q %q %q}",
					got.Text, got.Options[0], got.Explanation, tt.text, tt.opt0, tt.expl)
			}
		})
	}
}

func TestCanStartExam(t *testing.T) {
	var qs []Question
	for i := range KnowledgePerExam {
		qs = append(qs, q("k"+string(rune('A'+i)), CategoryHistory, TypeKnowledge, LevelCSP))
	}
	for i := range SituationalPerExam - 1 {
		qs = append(qs, q("s"+string(rune('A'+i)), CategoryLiving, TypeSituational, LevelCSP))
	}
	c := New(qs, nil)
	if c.CanStartExam(LevelCSP) {
		t.Error("CanStartExam with 11 situational = true, want false")
	}

	c = New(append(qs, q("s-last", CategoryLiving, TypeSituational, LevelCSP)), nil)
	if !c.CanStartExam(LevelCSP) {
		t.Error("CanStartExam with 28+12 = false, want true")
	}
	if c.CanStartExam(LevelCR) {
		t.Error("CanStartExam(CR) = true for a CSP-only bank")
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if c.Len() != 0 || c.All() != nil || c.ByLevel(LevelCR) != nil {
		t.Error("nil catalog must behave as empty")
	}
	if _, ok := c.ByID("x"); ok {
		t.Error("nil catalog ByID found a question")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"CSP": LevelCSP, "csp": LevelCSP, "CR": LevelCR, "cr": LevelCR} {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("B1"); ok {
		t.Error("ParseLevel(B1) accepted")
	}
}
