package quiz

import "github.com/abhisek/quiztutor/internal/shape"

// Accepted spellings for the prompt and option fields. The first entry is
// the one the question bank emits today.
var (
	promptKeys      = []string{"pregunta", "question", "prompt", "text"}
	optionsKeys     = []string{"opciones", "options", "alternativas"}
	optionLabelKeys = []string{"label", "texto", "text"}
)

// QuestionSetSchema describes the body of the question-source endpoint.
var QuestionSetSchema = &shape.Schema{
	Name:        "question-set",
	Description: "Ordered list of multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"preguntas": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    questionDefinition(),
			},
		},
		"required": []any{"preguntas"},
	},
}

func questionDefinition() map[string]any {
	props := map[string]any{
		"id": map[string]any{"type": []any{"integer", "string"}},
	}
	var promptAlts, optionAlts []any
	for _, k := range promptKeys {
		props[k] = map[string]any{"type": "string", "minLength": 1}
		promptAlts = append(promptAlts, map[string]any{"required": []any{k}})
	}
	for _, k := range optionsKeys {
		props[k] = map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    optionDefinition(),
		}
		optionAlts = append(optionAlts, map[string]any{"required": []any{k}})
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"allOf": []any{
			map[string]any{"anyOf": promptAlts},
			map[string]any{"anyOf": optionAlts},
		},
	}
}

func optionDefinition() map[string]any {
	props := map[string]any{
		"id": map[string]any{"type": "integer"},
	}
	var labelAlts []any
	for _, k := range optionLabelKeys {
		props[k] = map[string]any{"type": "string"}
		labelAlts = append(labelAlts, map[string]any{"required": []any{k}})
	}
	return map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string"},
			map[string]any{
				"type":       "object",
				"properties": props,
				"anyOf":      labelAlts,
			},
		},
	}
}
