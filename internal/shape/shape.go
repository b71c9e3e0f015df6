// Package shape validates untrusted JSON payloads against JSON Schema
// definitions before they are converted into typed values.
package shape

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema defines the JSON structure expected from a payload.
type Schema struct {
	// Name identifies this schema. Kebab-case, e.g. "question-set".
	// Compiled schemas are cached by name, so names must be unique.
	Name string

	// Description is a human-readable description of the payload.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Error reports a payload that is not valid JSON or does not conform
// to its schema.
type Error struct {
	Schema  string
	Content []byte
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("payload does not match %s: %v", e.Schema, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// compiled caches compiled schemas by name.
var compiled sync.Map // map[string]*jsonschema.Schema

// Validate parses raw as JSON and checks it against s. On success it returns
// the decoded document so callers can convert it without parsing twice.
func Validate(s *Schema, raw []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Schema: s.Name, Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compile(s)
	if err != nil {
		return nil, &Error{Schema: s.Name, Content: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := sch.Validate(doc); err != nil {
		return nil, &Error{Schema: s.Name, Content: raw, Err: err}
	}
	return doc, nil
}

func compile(s *Schema) (*jsonschema.Schema, error) {
	if cached, ok := compiled.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not a Go map with typed
	// slices, so round-trip the definition through JSON.
	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	compiled.Store(s.Name, sch)
	return sch, nil
}
