package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Results maps question ids to their results and remembers insertion order,
// including across a JSON round trip. The zero value is empty and usable.
type Results struct {
	order []string
	byID  map[string]QuestionResult
}

// Len returns the number of questions with at least one attempt.
func (r Results) Len() int {
	return len(r.order)
}

// Get returns the result for id.
func (r Results) Get(id string) (QuestionResult, bool) {
	res, ok := r.byID[id]
	return res, ok
}

// Has reports whether id has been attempted.
func (r Results) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns the ids in insertion order.
func (r Results) IDs() []string {
	return slices.Clone(r.order)
}

// All iterates in insertion order.
func (r Results) All() iter.Seq2[string, QuestionResult] {
	return func(yield func(string, QuestionResult) bool) {
		for _, id := range r.order {
			if !yield(id, r.byID[id]) {
				return
			}
		}
	}
}

func (r *Results) set(id string, res QuestionResult) {
	if r.byID == nil {
		r.byID = make(map[string]QuestionResult)
	}
	if _, ok := r.byID[id]; !ok {
		r.order = append(r.order, id)
	}
	r.byID[id] = res
}

func (r *Results) remove(id string) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
}

func (r Results) clone() Results {
	return Results{
		order: slices.Clone(r.order),
		byID:  maps.Clone(r.byID),
	}
}

// MarshalJSON writes an object whose keys follow insertion order.
func (r Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.byID[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order. A repeated key keeps its
// first position and its last value.
func (r *Results) UnmarshalJSON(data []byte) error {
	*r = Results{}
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("questionResults: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("questionResults: expected key, got %v", tok)
		}
		var res QuestionResult
		if err := dec.Decode(&res); err != nil {
			return fmt.Errorf("questionResults[%q]: %w", id, err)
		}
		r.set(id, res)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
