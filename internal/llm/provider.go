// Package llm talks to hosted language models for the LLM-backed tutor.
// Providers return JSON validated against the requested schema; decorators
// add retries, a per-request deadline and event logging.
package llm

import (
	"context"
	"encoding/json"

	"github.com/abhisek/quiztutor/internal/shape"
)

// Provider is one hosted model behind a uniform request/response shape.
type Provider interface {
	// Generate sends the conversation and returns the model's answer. When
	// req.Schema is set the answer is JSON that already passed validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string

	// Name returns the provider name: anthropic, openai, gemini,
	// openrouter or mock.
	Name() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation, oldest first. For the tutor this is
	// the prior turns of the session followed by the learner's question.
	Messages []Message

	// Schema, when set, makes the provider use its native structured
	// output mechanism. Without it Content is the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema a structured answer must satisfy. Its Name is
// used as the tool or schema name sent to the provider.
type Schema = shape.Schema

// Response holds the model's output.
type Response struct {
	// Content is the validated JSON object when the request had a Schema,
	// the raw text otherwise.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request, which may be a
	// dated variant of ModelID.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
