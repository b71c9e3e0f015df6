package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quiztutor/internal/backend"
	"github.com/abhisek/quiztutor/internal/quiz"
	"github.com/abhisek/quiztutor/internal/tutor"
)

func startServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	opts.Log = zerolog.Nop()
	srv := httptest.NewServer(NewRouter(opts))
	t.Cleanup(srv.Close)
	return srv
}

func TestDefaultQuestionsParse(t *testing.T) {
	set, err := quiz.ParseQuestionSet(DefaultQuestions())
	require.NoError(t, err)
	require.Len(t, set, 4)
	assert.Equal(t, "What is 7 x 8?", set[0].Prompt)
	assert.Equal(t, "multiplication", set[0].Raw["tema"])
	assert.Equal(t, "Lima", set[3].Options[0].Label)
}

func TestQuestionSourceAgainstServer(t *testing.T) {
	srv := startServer(t, Options{})

	src := backend.NewQuestionSource(backend.QuestionsConfig{URL: srv.URL + "/questions", Timeout: time.Second}, nil)
	set, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, set, 4)
}

func TestHTTPTutorAgainstServer(t *testing.T) {
	srv := startServer(t, Options{})
	tt := backend.NewHTTPTutor(backend.TutorConfig{
		URL:              srv.URL + "/ai-tutor/",
		Timeout:          time.Second,
		ForwardSessionID: true,
	}, nil)

	q := tutor.Query{
		Context: tutor.Context{
			Question: map[string]any{"pregunta": "What is 7 x 8?"},
			Answer:   "56",
		},
		Text: "why?",
	}
	first, err := tt.Ask(context.Background(), q)
	require.NoError(t, err)
	assert.Contains(t, first.Message, `You picked "56"`)
	require.NotEmpty(t, first.SessionID)

	q.SessionID = first.SessionID
	second, err := tt.Ask(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestTutorWithoutAnswer(t *testing.T) {
	srv := startServer(t, Options{})
	tt := backend.NewHTTPTutor(backend.TutorConfig{URL: srv.URL + "/ai-tutor/"}, nil)

	reply, err := tt.Ask(context.Background(), tutor.Query{Text: "hint?"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply.Message, "You have not picked an answer yet."))
}

func TestTutorFailureModes(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		srv := startServer(t, Options{FailTutor: true})
		tt := backend.NewHTTPTutor(backend.TutorConfig{URL: srv.URL + "/ai-tutor/"}, nil)

		_, err := tt.Ask(context.Background(), tutor.Query{Text: "why?"})
		var se *backend.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	})

	t.Run("slow reply times out", func(t *testing.T) {
		srv := startServer(t, Options{Delay: time.Second})
		tt := backend.NewHTTPTutor(backend.TutorConfig{URL: srv.URL + "/ai-tutor/", Timeout: 50 * time.Millisecond}, nil)

		_, err := tt.Ask(context.Background(), tutor.Query{Text: "why?"})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		srv := startServer(t, Options{})
		resp, err := http.Post(srv.URL+"/ai-tutor/", "application/json", strings.NewReader(`{"consulta_usuario":"  "}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRoutesRejectWrongMethod(t *testing.T) {
	srv := startServer(t, Options{})

	resp, err := http.Post(srv.URL+"/questions", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoadQuestions(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "q.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"preguntas":[{"pregunta":"p","opciones":["a","b"]}]}`), 0o644))
	body, err := LoadQuestions(good)
	require.NoError(t, err)
	set, err := quiz.ParseQuestionSet(body)
	require.NoError(t, err)
	assert.Len(t, set, 1)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("preguntas:\n  - pregunta: p\n"), 0o644))
	_, err = LoadQuestions(bad)
	var shapeErr *quiz.ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}
