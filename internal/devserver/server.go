// Package devserver is a local stand-in for the question bank and the tutor
// endpoint, used by `quiztutor serve` and by tests.
package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/abhisek/quiztutor/internal/tutor"
)

// Options configures the fixture server.
type Options struct {
	// Questions is the JSON body served by GET /questions. Nil serves the
	// embedded fixture.
	Questions []byte

	// Delay is added before every tutor reply.
	Delay time.Duration

	// FailTutor makes the tutor endpoint answer 503.
	FailTutor bool

	Log zerolog.Logger
}

type server struct {
	opts Options
}

// NewRouter returns the fixture API:
//
//	GET  /questions   the question set
//	POST /ai-tutor/   a canned tutor reply
//	GET  /health
func NewRouter(opts Options) http.Handler {
	if opts.Questions == nil {
		opts.Questions = DefaultQuestions()
	}
	s := &server{opts: opts}

	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/questions", s.questions).Methods(http.MethodGet)
	r.HandleFunc("/ai-tutor/", s.tutor).Methods(http.MethodPost)
	r.HandleFunc("/ai-tutor", s.tutor).Methods(http.MethodPost)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}

func (s *server) questions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(s.opts.Questions)
}

func (s *server) tutor(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.opts.Delay > 0 {
		select {
		case <-time.After(s.opts.Delay):
		case <-r.Context().Done():
			return
		}
	}
	if s.opts.FailTutor {
		writeError(w, http.StatusServiceUnavailable, "tutor unavailable")
		return
	}

	query, _ := req["consulta_usuario"].(string)
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "consulta_usuario is required")
		return
	}
	answer, _ := req["r_usuario"].(string)
	prompt, _ := req["pregunta"].(string)

	sessionID, _ := req["session_id"].(string)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"msg":        cannedReply(prompt, answer, query),
		"session_id": sessionID,
	})
}

func cannedReply(prompt, answer, query string) string {
	var b strings.Builder
	if answer == "" || answer == tutor.NoAnswerSentinel {
		b.WriteString("You have not picked an answer yet. ")
	} else {
		fmt.Fprintf(&b, "You picked %q. ", answer)
	}
	if prompt != "" {
		fmt.Fprintf(&b, "Re-read the question: %q. ", prompt)
	}
	fmt.Fprintf(&b, "About %q: try eliminating the options you are sure are wrong first.", query)
	return b.String()
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.opts.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
