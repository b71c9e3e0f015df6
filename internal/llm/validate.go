package llm

import (
	"encoding/json"
	"errors"

	"github.com/abhisek/quiztutor/internal/shape"
)

// validateResponse checks raw against schema. A nil schema accepts
// anything. Failures are returned as *ErrInvalidResponse so the retry
// decorator gives the model one more chance.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	if _, err := shape.Validate(schema, raw); err != nil {
		var se *shape.Error
		if errors.As(err, &se) {
			err = se.Err
		}
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}
