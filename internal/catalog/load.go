package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/questions.json data/questions_zh.json
var seed embed.FS

//go:embed data/question.schema.json
var questionSchemaJSON []byte

//go:embed data/translation.schema.json
var translationSchemaJSON []byte

// Source supplies the raw question bank and an optional translation overlay.
type Source struct {
	Name             string
	ReadQuestions    func() ([]byte, error)
	ReadTranslations func() ([]byte, error) // nil means no overlay
}

// Embedded returns the question bank compiled into the binary.
func Embedded() Source {
	return Source{
		Name:             "embedded",
		ReadQuestions:    func() ([]byte, error) { return seed.ReadFile("data/questions.json") },
		ReadTranslations: func() ([]byte, error) { return seed.ReadFile("data/questions_zh.json") },
	}
}

// Files returns a source reading JSON files from disk. An empty
// translationsPath disables the overlay.
func Files(questionsPath, translationsPath string) Source {
	src := Source{
		Name:          questionsPath,
		ReadQuestions: func() ([]byte, error) { return os.ReadFile(questionsPath) },
	}
	if translationsPath != "" {
		src.ReadTranslations = func() ([]byte, error) { return os.ReadFile(translationsPath) }
	}
	return src
}

// Bytes returns a source over in-memory documents. A nil translations slice
// disables the overlay.
func Bytes(name string, questions, translations []byte) Source {
	src := Source{
		Name:          name,
		ReadQuestions: func() ([]byte, error) { return questions, nil },
	}
	if translations != nil {
		src.ReadTranslations = func() ([]byte, error) { return translations, nil }
	}
	return src
}

// Rejection describes a record dropped during loading.
type Rejection struct {
	Index  int
	ID     string
	Reason string
}

// Report summarizes a load.
type Report struct {
	Source     string
	Loaded     int
	Dropped    []Rejection
	Translated int
	Unmatched  int   // overlay entries with no matching question
	Err        error // primary source unusable; the catalog is empty
	OverlayErr error // overlay unusable; questions carry no translation
}

// Load builds a catalog from src. Failures never surface to the caller: an
// unusable source yields an empty catalog and invalid records are dropped,
// all of it logged.
func Load(src Source, logger *slog.Logger) *Catalog {
	c, _ := LoadWithReport(src, logger)
	return c
}

// LoadWithReport is Load plus a description of what was kept and dropped.
func LoadWithReport(src Source, logger *slog.Logger) (*Catalog, Report) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rep := Report{Source: src.Name}

	schemas, err := compileSchemas()
	if err != nil {
		rep.Err = err
		logger.Error("compile question schema", "error", err)
		return Empty(), rep
	}

	if src.ReadQuestions == nil {
		rep.Err = errors.New("no question source")
		logger.Warn("question bank unavailable", "source", src.Name, "error", rep.Err)
		return Empty(), rep
	}
	raw, err := src.ReadQuestions()
	if err != nil {
		rep.Err = fmt.Errorf("read questions: %w", err)
		logger.Warn("question bank unavailable", "source", src.Name, "error", err)
		return Empty(), rep
	}

	questions, dropped, err := decodeQuestions(raw, schemas.question)
	if err != nil {
		rep.Err = err
		logger.Warn("question bank malformed", "source", src.Name, "error", err)
		return Empty(), rep
	}
	rep.Dropped = dropped
	for _, d := range dropped {
		logger.Warn("question dropped", "source", src.Name, "index", d.Index, "id", d.ID, "reason", d.Reason)
	}

	var overlay map[string]Translation
	if src.ReadTranslations != nil {
		overlay, rep.OverlayErr = readOverlay(src.ReadTranslations, schemas.translation, logger)
		if rep.OverlayErr != nil {
			logger.Warn("translation overlay unavailable", "source", src.Name, "error", rep.OverlayErr)
		}
	}

	c := New(questions, overlay)
	rep.Loaded = c.Len()
	for id := range overlay {
		if _, ok := c.ByID(id); ok {
			rep.Translated++
		} else {
			rep.Unmatched++
		}
	}
	logger.Info("question bank loaded",
		"source", src.Name,
		"questions", rep.Loaded,
		"dropped", len(rep.Dropped),
		"translated", rep.Translated,
	)
	return c, rep
}

type schemaSet struct {
	question    *jsonschema.Schema
	translation *jsonschema.Schema
}

var compileSchemas = sync.OnceValues(func() (schemaSet, error) {
	q, err := compileSchema("schema://question.json", questionSchemaJSON)
	if err != nil {
		return schemaSet{}, err
	}
	t, err := compileSchema("schema://translation.json", translationSchemaJSON)
	if err != nil {
		return schemaSet{}, err
	}
	return schemaSet{question: q, translation: t}, nil
})

func compileSchema(url string, def []byte) (*jsonschema.Schema, error) {
	var parsed any
	if err := json.Unmarshal(def, &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", url, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", url, err)
	}
	return compiled, nil
}

// record is the on-disk question format.
type record struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Levels       []string `json:"levels"`
	Type         string   `json:"type"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  *string  `json:"explanation"`
}

type translationRecord struct {
	ID          string   `json:"id"`
	Question    *string  `json:"question"`
	Options     []string `json:"options"`
	Explanation *string  `json:"explanation"`
}

// decodeQuestions validates each element on its own so one bad record does
// not take the whole bank down. Only a non-array document is an error.
func decodeQuestions(raw []byte, schema *jsonschema.Schema) ([]Question, []Rejection, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, nil, fmt.Errorf("decode question array: %w", err)
	}

	var (
		out     []Question
		dropped []Rejection
		seen    = make(map[string]bool, len(elems))
	)
	for i, elem := range elems {
		var parsed any
		if err := json.Unmarshal(elem, &parsed); err != nil {
			dropped = append(dropped, Rejection{Index: i, Reason: err.Error()})
			continue
		}
		id := peekID(parsed)
		if err := schema.Validate(parsed); err != nil {
			dropped = append(dropped, Rejection{Index: i, ID: id, Reason: oneLine(err.Error())})
			continue
		}

		var r record
		if err := json.Unmarshal(elem, &r); err != nil {
			dropped = append(dropped, Rejection{Index: i, ID: id, Reason: err.Error()})
			continue
		}
		q, err := r.toQuestion()
		if err != nil {
			dropped = append(dropped, Rejection{Index: i, ID: id, Reason: err.Error()})
			continue
		}
		if seen[q.ID] {
			dropped = append(dropped, Rejection{Index: i, ID: id, Reason: "duplicate id"})
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out, dropped, nil
}

func (r record) toQuestion() (Question, error) {
	cat, ok := ParseCategory(r.Category)
	if !ok {
		return Question{}, fmt.Errorf("unknown category %q", r.Category)
	}
	typ, ok := ParseType(r.Type)
	if !ok {
		return Question{}, fmt.Errorf("unknown type %q", r.Type)
	}
	levels := make([]Level, 0, len(r.Levels))
	for _, s := range r.Levels {
		l, ok := ParseLevel(s)
		if !ok {
			return Question{}, fmt.Errorf("unknown level %q", s)
		}
		levels = append(levels, l)
	}
	if len(levels) == 0 {
		return Question{}, errors.New("no levels")
	}
	if len(r.Options) != OptionCount {
		return Question{}, fmt.Errorf("%d options, want %d", len(r.Options), OptionCount)
	}
	if r.CorrectIndex < 0 || r.CorrectIndex >= len(r.Options) {
		return Question{}, fmt.Errorf("correct_index %d out of range", r.CorrectIndex)
	}

	q := Question{
		ID:           r.ID,
		Category:     cat,
		Levels:       levels,
		Type:         typ,
		Text:         r.Question,
		Options:      r.Options,
		CorrectIndex: r.CorrectIndex,
	}
	if r.Explanation != nil {
		q.Explanation = *r.Explanation
	}
	return q, nil
}

// readOverlay decodes the translation file. Invalid entries are skipped.
func readOverlay(read func() ([]byte, error), schema *jsonschema.Schema, logger *slog.Logger) (map[string]Translation, error) {
	raw, err := read()
	if err != nil {
		return nil, fmt.Errorf("read translations: %w", err)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("decode translation array: %w", err)
	}

	out := make(map[string]Translation, len(elems))
	for i, elem := range elems {
		var parsed any
		if err := json.Unmarshal(elem, &parsed); err != nil {
			logger.Warn("translation dropped", "index", i, "reason", err)
			continue
		}
		if err := schema.Validate(parsed); err != nil {
			logger.Warn("translation dropped", "index", i, "id", peekID(parsed), "reason", oneLine(err.Error()))
			continue
		}
		var r translationRecord
		if err := json.Unmarshal(elem, &r); err != nil {
			logger.Warn("translation dropped", "index", i, "reason", err)
			continue
		}
		t := Translation{Options: r.Options}
		if r.Question != nil {
			t.Text = *r.Question
		}
		if r.Explanation != nil {
			t.Explanation = *r.Explanation
		}
		out[r.ID] = t
	}
	return out, nil
}

func peekID(v any) string {
	if m, ok := v.(map[string]any); ok {
		if id, ok := m["id"].(string); ok {
			return id
		}
	}
	return ""
}

// oneLine flattens a multi-line validation error for structured logs.
func oneLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, " ")
}
