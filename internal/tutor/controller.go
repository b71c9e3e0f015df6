package tutor

import (
	"errors"
	"strings"
)

// ErrEmptyReply is recorded when the tutor answers without a message.
var ErrEmptyReply = errors.New("tutor reply has no message")

// Ticket identifies an accepted send. Complete uses it to match a reply to
// the message that caused it.
type Ticket struct {
	generation uint64
	index      int
	Text       string
}

// Outcome reports what Complete did with a reply.
type Outcome int

const (
	// OutcomeStale means the reply belonged to a superseded request and
	// was dropped.
	OutcomeStale Outcome = iota
	OutcomeReplied
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStale:
		return "stale"
	case OutcomeReplied:
		return "replied"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Controller holds the tutor panel state: visibility, the transcript, the
// backend session id and the single request slot. Like the quiz navigator
// it is owned by the UI event loop and takes no locks.
type Controller struct {
	open       bool
	transcript []Message
	sessionID  string
	state      RequestState
	generation uint64
}

// NewController returns a closed panel with an empty conversation.
func NewController() *Controller {
	return &Controller{}
}

func (c *Controller) Open()        { c.open = true }
func (c *Controller) Close()       { c.open = false }
func (c *Controller) Toggle()      { c.open = !c.open }
func (c *Controller) IsOpen() bool { return c.open }

// Busy reports whether a request is in flight.
func (c *Controller) Busy() bool { return c.state.Phase == PhaseInFlight }

// State returns the request state.
func (c *Controller) State() RequestState { return c.state }

// SessionID returns the backend session id, or "" before one was issued.
func (c *Controller) SessionID() string { return c.sessionID }

// Transcript returns a copy of the conversation.
func (c *Controller) Transcript() []Message {
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Len returns the number of transcript messages.
func (c *Controller) Len() int { return len(c.transcript) }

// Begin accepts a learner message for sending. It refuses blank text and
// refuses while another request is in flight; neither case changes any
// state. On acceptance the trimmed text is appended as a pending user
// message and the request slot becomes in-flight.
func (c *Controller) Begin(text string) (Ticket, bool) {
	text = strings.TrimSpace(text)
	if text == "" || c.Busy() {
		return Ticket{}, false
	}

	c.transcript = append(c.transcript, Message{
		Sender: SenderUser,
		Text:   text,
		Status: StatusPending,
	})
	c.generation++
	c.state = RequestState{Phase: PhaseInFlight}

	return Ticket{
		generation: c.generation,
		index:      len(c.transcript) - 1,
		Text:       text,
	}, true
}

// Query builds the outbound request for an accepted ticket.
func (c *Controller) Query(t Ticket, qc Context) Query {
	var history []Message
	for i, m := range c.transcript {
		if i >= t.index {
			break
		}
		if m.Status == StatusConfirmed {
			history = append(history, m)
		}
	}
	return Query{
		Context:   qc,
		Text:      t.Text,
		SessionID: c.sessionID,
		History:   history,
	}
}

// Complete applies the result of the request identified by t. A reply with
// a message appends exactly one bot message and records the session id if
// none is known yet. Any error or an empty reply marks the user message as
// failed and appends nothing. The request slot is released either way.
func (c *Controller) Complete(t Ticket, reply *Reply, err error) Outcome {
	if !c.Busy() || t.generation != c.generation || t.index >= len(c.transcript) {
		return OutcomeStale
	}

	if err == nil && (reply == nil || strings.TrimSpace(reply.Message) == "") {
		err = ErrEmptyReply
	}
	if err != nil {
		c.transcript[t.index].Status = StatusFailed
		c.state = RequestState{Phase: PhaseFailed, Reason: err.Error()}
		return OutcomeFailed
	}

	c.transcript[t.index].Status = StatusConfirmed
	c.transcript = append(c.transcript, Message{
		Sender: SenderBot,
		Text:   reply.Message,
		Status: StatusConfirmed,
	})
	if c.sessionID == "" && reply.SessionID != "" {
		c.sessionID = reply.SessionID
	}
	c.state = RequestState{Phase: PhaseSucceeded}
	return OutcomeReplied
}

// Reset starts a new conversation. It is refused while a request is in
// flight, so the one-request limit holds across conversations. A reply
// carrying a ticket from before the reset is treated as stale.
func (c *Controller) Reset() bool {
	if c.Busy() {
		return false
	}
	c.transcript = nil
	c.sessionID = ""
	c.state = RequestState{}
	c.generation++
	return true
}
