package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySet is returned when loading a question set with no questions.
	ErrEmptySet = errors.New("question set is empty")

	// ErrNotReady is returned by operations that need a loaded question set.
	ErrNotReady = errors.New("question set not loaded")
)

// ShapeError reports a question-set payload that could not be turned into
// a QuestionSet.
type ShapeError struct {
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("malformed question set: %v", e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// IndexError reports a question index outside the loaded set.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("question index %d out of range [0, %d)", e.Index, e.Len)
}

// UnknownOptionError reports an option id the question does not offer.
type UnknownOptionError struct {
	QuestionIndex int
	OptionID      int
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("question %d has no option %d", e.QuestionIndex, e.OptionID)
}
