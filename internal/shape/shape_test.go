package shape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var personSchema = &Schema{
	Name: "test-person",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"name", "age"},
	},
}

func TestValidate_ReturnsDecodedDocument(t *testing.T) {
	doc, err := Validate(personSchema, []byte(`{"name":"Ana","age":9}`))
	require.NoError(t, err)

	m, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ana", m["name"])
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed", `{not json}`},
		{"empty", ``},
		{"missing required", `{"name":"Ana"}`},
		{"wrong type", `{"name":"Ana","age":"nine"}`},
		{"below minimum", `{"name":"Ana","age":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(personSchema, []byte(tt.raw))
			require.Error(t, err)

			var shapeErr *Error
			require.True(t, errors.As(err, &shapeErr))
			assert.Equal(t, "test-person", shapeErr.Schema)
		})
	}
}
