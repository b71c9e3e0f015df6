// Package audit decorates the question source and the tutor so every call
// is logged and appended to the diagnostic event store.
package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/quiztutor/internal/quiz"
	"github.com/abhisek/quiztutor/internal/store"
	"github.com/abhisek/quiztutor/internal/tutor"
)

// Source wraps a quiz.Source with fetch recording.
type Source struct {
	inner quiz.Source
	url   string
	repo  store.EventRepo
	log   zerolog.Logger
}

// WrapSource records every fetch of inner. url labels the events; repo
// may be nil.
func WrapSource(inner quiz.Source, url string, repo store.EventRepo, log zerolog.Logger) *Source {
	return &Source{inner: inner, url: url, repo: repo, log: log}
}

func (s *Source) Fetch(ctx context.Context) (quiz.QuestionSet, error) {
	start := time.Now()
	set, err := s.inner.Fetch(ctx)

	data := store.QuestionFetchEventData{
		URL:           s.url,
		QuestionCount: len(set),
		LatencyMs:     time.Since(start).Milliseconds(),
		Success:       err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		s.log.Error().Err(err).Str("url", s.url).Msg("question fetch failed")
	} else {
		s.log.Info().Str("url", s.url).Int("questions", len(set)).
			Int64("latency_ms", data.LatencyMs).Msg("questions loaded")
	}

	if s.repo != nil {
		if recErr := s.repo.AppendQuestionFetch(ctx, data); recErr != nil {
			s.log.Error().Err(recErr).Msg("record question fetch event")
		}
	}
	return set, err
}

// Tutor wraps a tutor.Tutor with exchange recording.
type Tutor struct {
	inner   tutor.Tutor
	backend string
	repo    store.EventRepo
	log     zerolog.Logger
}

// WrapTutor records every exchange with inner under the backend label
// ("http" or "llm"); repo may be nil.
func WrapTutor(inner tutor.Tutor, backend string, repo store.EventRepo, log zerolog.Logger) *Tutor {
	return &Tutor{inner: inner, backend: backend, repo: repo, log: log}
}

func (t *Tutor) Ask(ctx context.Context, q tutor.Query) (*tutor.Reply, error) {
	start := time.Now()
	reply, err := t.inner.Ask(ctx, q)

	data := store.TutorExchangeEventData{
		Backend:       t.backend,
		QuestionIndex: q.Context.QuestionIndex,
		Answer:        q.Context.Answer,
		Query:         q.Text,
		SessionID:     q.SessionID,
		LatencyMs:     time.Since(start).Milliseconds(),
		Success:       err == nil,
	}
	if reply != nil {
		data.Reply = reply.Message
		if reply.SessionID != "" {
			data.SessionID = reply.SessionID
		}
	}

	ev := t.log.Info()
	if err != nil {
		data.ErrorMessage = err.Error()
		ev = t.log.Warn().Err(err)
	}
	ev.Str("backend", t.backend).
		Int("question", q.Context.QuestionIndex).
		Str("session_id", data.SessionID).
		Int64("latency_ms", data.LatencyMs).
		Msg("tutor exchange")

	// Recorded under a fresh context: the request context may already be
	// cancelled by a timeout, and the failure is exactly what should land.
	if t.repo != nil {
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if recErr := t.repo.AppendTutorExchange(recCtx, data); recErr != nil {
			t.log.Error().Err(recErr).Msg("record tutor exchange event")
		}
	}
	return reply, err
}
