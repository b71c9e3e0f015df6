package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/abhisek/quiztutor/internal/shape"
	"github.com/abhisek/quiztutor/internal/tutor"
)

// Request body keys understood by the tutor endpoint. They sit alongside
// the fields of the question object itself.
const (
	fieldAnswer    = "r_usuario"
	fieldQuery     = "consulta_usuario"
	fieldSessionID = "session_id"
)

// replySchema is the success body of the tutor endpoint.
var replySchema = &shape.Schema{
	Name:        "tutor-http-reply",
	Description: "Tutor endpoint response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"msg": map[string]any{
				"type":    "string",
				"pattern": `\S`,
			},
			"session_id": map[string]any{
				"type": "string",
			},
		},
		"required": []any{"msg"},
	},
}

// HTTPTutor asks the tutor endpoint about the current question.
type HTTPTutor struct {
	cfg    TutorConfig
	client *http.Client
}

var _ tutor.Tutor = (*HTTPTutor)(nil)

// NewHTTPTutor returns a tutor for cfg. A nil client uses
// http.DefaultClient.
func NewHTTPTutor(cfg TutorConfig, client *http.Client) *HTTPTutor {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTutor{cfg: cfg, client: client}
}

// Ask posts one query. The call never retries.
func (t *HTTPTutor) Ask(ctx context.Context, q tutor.Query) (*tutor.Reply, error) {
	body, err := json.Marshal(t.requestBody(q))
	if err != nil {
		return nil, fmt.Errorf("encode tutor request: %w", err)
	}

	ctx, cancel := withTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	data, err := roundTrip(ctx, t.client, http.MethodPost, t.cfg.URL, body)
	if err != nil {
		return nil, err
	}

	doc, err := shape.Validate(replySchema, data)
	if err != nil {
		return nil, &ShapeError{URL: t.cfg.URL, Err: err}
	}
	obj, _ := doc.(map[string]any)
	msg, _ := obj["msg"].(string)
	sid, _ := obj["session_id"].(string)

	return &tutor.Reply{Message: msg, SessionID: sid}, nil
}

// requestBody spreads the question object and adds the learner fields on
// top, so they win over any same-named question field.
func (t *HTTPTutor) requestBody(q tutor.Query) map[string]any {
	body := make(map[string]any, len(q.Context.Question)+3)
	maps.Copy(body, q.Context.Question)

	answer := q.Context.Answer
	if answer == "" {
		answer = tutor.NoAnswerSentinel
	}
	body[fieldAnswer] = answer
	body[fieldQuery] = q.Text

	if t.cfg.ForwardSessionID && q.SessionID != "" {
		body[fieldSessionID] = q.SessionID
	}
	return body
}
