package tutor

import (
	"context"
	"fmt"
)

// NoAnswerSentinel is sent as the learner's answer when no option has been
// selected for the current question.
const NoAnswerSentinel = "no-option-selected-yet"

// Sender identifies who wrote a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Status tracks delivery of a user message. Bot messages are always
// StatusConfirmed.
type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Message is one entry of the conversation transcript.
type Message struct {
	Sender Sender
	Text   string
	Status Status
}

// Phase is the lifecycle stage of the most recent tutor request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in-flight"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RequestState is the state of the single request slot. Reason is set only
// in PhaseFailed.
type RequestState struct {
	Phase  Phase
	Reason string
}

func (s RequestState) String() string {
	if s.Phase == PhaseFailed && s.Reason != "" {
		return fmt.Sprintf("%s: %s", s.Phase, s.Reason)
	}
	return s.Phase.String()
}

// Context is the read-only projection of the quiz the tutor is asked about.
type Context struct {
	// QuestionIndex is the zero-based position of the question in the set.
	QuestionIndex int

	// Question is the question object as received from the question bank.
	Question map[string]any

	// Prompt and Options are the parsed question, for backends that build
	// their own prompt.
	Prompt  string
	Options []string

	// Answer is the label of the selected option, or NoAnswerSentinel.
	Answer string
}

// Query is one outbound tutor request.
type Query struct {
	Context   Context
	Text      string
	SessionID string

	// History holds the confirmed turns that preceded this query.
	History []Message
}

// Reply is a successful tutor response.
type Reply struct {
	Message   string
	SessionID string
}

// Tutor answers learner questions about the current quiz question.
type Tutor interface {
	Ask(ctx context.Context, q Query) (*Reply, error)
}

// TutorFunc adapts a function to the Tutor interface.
type TutorFunc func(ctx context.Context, q Query) (*Reply, error)

func (f TutorFunc) Ask(ctx context.Context, q Query) (*Reply, error) { return f(ctx, q) }
