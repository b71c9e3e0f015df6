// Package llmtutor answers tutor queries with a hosted language model
// instead of the HTTP tutor endpoint.
package llmtutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/quiztutor/internal/llm"
	"github.com/abhisek/quiztutor/internal/tutor"
)

// Reply is the structured output requested from the model.
var replySchema = &llm.Schema{
	Name:        "tutor-reply",
	Description: "One short tutoring message for the learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"msg": map[string]any{
				"type":        "string",
				"description": "The tutor's answer to the learner, plain text",
				"pattern":     `\S`,
			},
		},
		"required":             []any{"msg"},
		"additionalProperties": false,
	},
}

const maxTokens = 600

// Tutor implements tutor.Tutor on top of an llm.Provider.
type Tutor struct {
	provider llm.Provider
	newID    func() string
}

var _ tutor.Tutor = (*Tutor)(nil)

// New returns a tutor backed by p.
func New(p llm.Provider) *Tutor {
	return &Tutor{provider: p, newID: uuid.NewString}
}

// Ask sends the query with the session's earlier turns as conversation
// history. The first reply of a conversation carries a fresh session id;
// later replies echo the one they were given.
func (t *Tutor) Ask(ctx context.Context, q tutor.Query) (*tutor.Reply, error) {
	req := llm.Request{
		System:    systemPrompt(q.Context),
		Messages:  history(q),
		Schema:    replySchema,
		MaxTokens: maxTokens,
	}

	resp, err := t.provider.Generate(llm.WithPurpose(ctx, llm.PurposeTutor), req)
	if err != nil {
		return nil, fmt.Errorf("tutor generate: %w", err)
	}

	var out struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	sid := q.SessionID
	if sid == "" {
		sid = t.newID()
	}
	return &tutor.Reply{Message: strings.TrimSpace(out.Msg), SessionID: sid}, nil
}

func history(q tutor.Query) []llm.Message {
	msgs := make([]llm.Message, 0, len(q.History)+1)
	for _, m := range q.History {
		role := llm.RoleUser
		if m.Sender == tutor.SenderBot {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Text})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: q.Text})
}

func systemPrompt(qc tutor.Context) string {
	var b strings.Builder

	b.WriteString("You are a patient tutor helping a learner with a multiple-choice quiz.\n")
	b.WriteString("Explain concepts and guide the learner's reasoning. Keep answers under 120 words.\n")
	b.WriteString("Reply in the language the learner writes in.\n\n")

	fmt.Fprintf(&b, "Question %d: %s\n", qc.QuestionIndex+1, qc.Prompt)
	for i, opt := range qc.Options {
		fmt.Fprintf(&b, "  %c) %s\n", 'A'+i, opt)
	}

	if qc.Answer == "" || qc.Answer == tutor.NoAnswerSentinel {
		b.WriteString("\nThe learner has not selected an answer yet.\n")
	} else {
		fmt.Fprintf(&b, "\nThe learner's current answer: %s\n", qc.Answer)
	}
	return b.String()
}
