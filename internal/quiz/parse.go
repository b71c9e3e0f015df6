package quiz

import (
	"fmt"

	"github.com/abhisek/quiztutor/internal/shape"
)

// ParseQuestionSet validates a question-source body and converts it into a
// QuestionSet. Any deviation from QuestionSetSchema yields a *ShapeError.
func ParseQuestionSet(raw []byte) (QuestionSet, error) {
	doc, err := shape.Validate(QuestionSetSchema, raw)
	if err != nil {
		return nil, &ShapeError{Err: err}
	}

	// The schema guarantees the structure below; the checks only keep the
	// conversion total.
	root, _ := doc.(map[string]any)
	items, _ := root["preguntas"].([]any)

	set := make(QuestionSet, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &ShapeError{Err: fmt.Errorf("preguntas[%d] is not an object", i)}
		}
		q, err := convertQuestion(i, obj)
		if err != nil {
			return nil, &ShapeError{Err: err}
		}
		set = append(set, q)
	}
	return set, nil
}

func convertQuestion(pos int, obj map[string]any) (Question, error) {
	q := Question{
		ID:     pos,
		Prompt: firstString(obj, promptKeys),
		Raw:    obj,
	}
	if id, ok := integer(obj["id"]); ok {
		q.ID = id
	}

	var rawOpts []any
	for _, k := range optionsKeys {
		if v, ok := obj[k].([]any); ok {
			rawOpts = v
			break
		}
	}
	if len(rawOpts) == 0 {
		return Question{}, fmt.Errorf("preguntas[%d] has no options", pos)
	}

	seen := make(map[int]bool, len(rawOpts))
	for j, ro := range rawOpts {
		opt := Option{ID: j}
		switch v := ro.(type) {
		case string:
			opt.Label = v
		case map[string]any:
			if id, ok := integer(v["id"]); ok {
				opt.ID = id
			}
			opt.Label = firstString(v, optionLabelKeys)
		default:
			return Question{}, fmt.Errorf("preguntas[%d] option %d has unsupported type %T", pos, j, ro)
		}
		if seen[opt.ID] {
			return Question{}, fmt.Errorf("preguntas[%d] repeats option id %d", pos, opt.ID)
		}
		seen[opt.ID] = true
		q.Options = append(q.Options, opt)
	}
	return q, nil
}

func firstString(obj map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			return s
		}
	}
	return ""
}

// integer converts a decoded JSON number to int when it has no fraction.
func integer(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
