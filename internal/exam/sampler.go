package exam

import (
	"math/rand/v2"
	"slices"

	"github.com/examencivique/examencivique/internal/catalog"
)

// GenerateExam draws a stratified exam for level: 28 knowledge and 12
// situational questions, each drawn without replacement, then shuffled
// together so type does not predict position. A short pool contributes
// everything it has.
func GenerateExam(c *catalog.Catalog, level catalog.Level, rng *rand.Rand) []catalog.Question {
	knowledge := draw(c.Knowledge(level), catalog.KnowledgePerExam, rng)
	situational := draw(c.Situational(level), catalog.SituationalPerExam, rng)

	exam := slices.Concat(knowledge, situational)
	shuffle(exam, rng)
	return exam
}

func draw(pool []catalog.Question, n int, rng *rand.Rand) []catalog.Question {
	shuffle(pool, rng)
	return pool[:min(n, len(pool))]
}

func shuffle(qs []catalog.Question, rng *rand.Rand) {
	rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}
