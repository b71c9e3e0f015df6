package quiz

import "context"

// Source fetches the question set. Implementations perform exactly one
// network round trip per call and never retry on their own.
type Source interface {
	Fetch(ctx context.Context) (QuestionSet, error)
}

// StaticSource serves a fixed question set. Used by tests and previews.
type StaticSource struct {
	Set QuestionSet
	Err error
}

func (s StaticSource) Fetch(context.Context) (QuestionSet, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Set, nil
}
