package devserver

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quiztutor/internal/quiz"
)

//go:embed fixtures/questions.yaml
var defaultFixture []byte

// DefaultQuestions returns the built-in question set as the JSON body the
// question endpoint serves.
func DefaultQuestions() []byte {
	body, err := fixtureJSON(defaultFixture)
	if err != nil {
		panic(fmt.Sprintf("devserver: embedded fixture: %v", err))
	}
	return body
}

// LoadQuestions reads a YAML or JSON question file and returns it as a JSON
// body. The file must parse as a valid question set.
func LoadQuestions(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	body, err := fixtureJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return body, nil
}

// fixtureJSON converts a YAML document (JSON is valid YAML) to JSON and
// checks it against the question payload rules.
func fixtureJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	if _, err := quiz.ParseQuestionSet(body); err != nil {
		return nil, err
	}
	return body, nil
}
