package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/abhisek/quiztutor/internal/quiz"
)

// QuestionSource fetches the question set from the question-bank endpoint.
type QuestionSource struct {
	cfg    QuestionsConfig
	client *http.Client
}

var _ quiz.Source = (*QuestionSource)(nil)

// NewQuestionSource returns a source for cfg. A nil client uses
// http.DefaultClient.
func NewQuestionSource(cfg QuestionsConfig, client *http.Client) *QuestionSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &QuestionSource{cfg: cfg, client: client}
}

// Fetch issues one GET and parses the body. A malformed body yields a
// *ShapeError wrapping the *quiz.ShapeError.
func (s *QuestionSource) Fetch(ctx context.Context) (quiz.QuestionSet, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	data, err := roundTrip(ctx, s.client, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	set, err := quiz.ParseQuestionSet(data)
	if err != nil {
		var se *quiz.ShapeError
		if errors.As(err, &se) {
			return nil, &ShapeError{URL: s.cfg.URL, Err: err}
		}
		return nil, err
	}
	return set, nil
}
