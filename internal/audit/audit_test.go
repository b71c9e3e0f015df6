package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quiztutor/internal/quiz"
	"github.com/abhisek/quiztutor/internal/store"
	"github.com/abhisek/quiztutor/internal/tutor"
)

type fakeRepo struct {
	fetches   []store.QuestionFetchEventData
	exchanges []store.TutorExchangeEventData
}

func (f *fakeRepo) AppendQuestionFetch(_ context.Context, d store.QuestionFetchEventData) error {
	f.fetches = append(f.fetches, d)
	return nil
}

func (f *fakeRepo) AppendTutorExchange(ctx context.Context, d store.TutorExchangeEventData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.exchanges = append(f.exchanges, d)
	return nil
}

func (f *fakeRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return nil
}

func TestSource_RecordsSuccessAndFailure(t *testing.T) {
	repo := &fakeRepo{}
	set := quiz.QuestionSet{{ID: 0, Prompt: "p", Options: []quiz.Option{{ID: 0, Label: "a"}}}}

	ok := WrapSource(quiz.StaticSource{Set: set}, "http://q", repo, zerolog.Nop())
	got, err := ok.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	var buf bytes.Buffer
	bad := WrapSource(quiz.StaticSource{Err: errors.New("refused")}, "http://q", repo, zerolog.New(&buf))
	_, err = bad.Fetch(context.Background())
	require.Error(t, err)

	require.Len(t, repo.fetches, 2)
	assert.True(t, repo.fetches[0].Success)
	assert.Equal(t, 1, repo.fetches[0].QuestionCount)
	assert.False(t, repo.fetches[1].Success)
	assert.Equal(t, "refused", repo.fetches[1].ErrorMessage)
	assert.Contains(t, buf.String(), "question fetch failed")
}

func TestTutor_RecordsReplySession(t *testing.T) {
	repo := &fakeRepo{}
	inner := tutor.TutorFunc(func(context.Context, tutor.Query) (*tutor.Reply, error) {
		return &tutor.Reply{Message: "Because B is correct", SessionID: "s1"}, nil
	})

	tt := WrapTutor(inner, "http", repo, zerolog.Nop())
	reply, err := tt.Ask(context.Background(), tutor.Query{
		Context: tutor.Context{QuestionIndex: 3, Answer: "B"},
		Text:    "why?",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", reply.SessionID)

	require.Len(t, repo.exchanges, 1)
	ex := repo.exchanges[0]
	assert.Equal(t, "http", ex.Backend)
	assert.Equal(t, 3, ex.QuestionIndex)
	assert.Equal(t, "why?", ex.Query)
	assert.Equal(t, "Because B is correct", ex.Reply)
	assert.Equal(t, "s1", ex.SessionID)
	assert.True(t, ex.Success)
}

func TestTutor_RecordsFailureAfterCancellation(t *testing.T) {
	repo := &fakeRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	inner := tutor.TutorFunc(func(context.Context, tutor.Query) (*tutor.Reply, error) {
		cancel()
		return nil, context.Canceled
	})

	_, err := WrapTutor(inner, "llm", repo, zerolog.Nop()).Ask(ctx, tutor.Query{Text: "why?"})
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, repo.exchanges, 1)
	assert.False(t, repo.exchanges[0].Success)
	assert.Equal(t, "context canceled", repo.exchanges[0].ErrorMessage)
}
