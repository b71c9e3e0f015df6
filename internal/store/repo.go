package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Kind names an event table.
type Kind string

const (
	KindQuestionFetch Kind = "fetch"
	KindTutorExchange Kind = "tutor"
	KindLLMRequest    Kind = "llm"
)

// EventMeta is shared by every stored event.
type EventMeta struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// QuestionFetchEventData captures one question-set fetch.
type QuestionFetchEventData struct {
	URL           string
	QuestionCount int
	LatencyMs     int64
	Success       bool
	ErrorMessage  string
}

// QuestionFetchRecord is a stored question fetch.
type QuestionFetchRecord struct {
	EventMeta
	QuestionFetchEventData
}

// TutorExchangeEventData captures one tutor query and its outcome.
type TutorExchangeEventData struct {
	Backend       string // "http" or "llm"
	QuestionIndex int
	Answer        string
	Query         string
	Reply         string
	SessionID     string
	LatencyMs     int64
	Success       bool
	ErrorMessage  string
}

// TutorExchangeRecord is a stored tutor exchange.
type TutorExchangeRecord struct {
	EventMeta
	TutorExchangeEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request.
type LLMEventRecord struct {
	EventMeta
	LLMRequestEventData
}

// LLMUsage aggregates LLM requests by one dimension.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// TimelineEntry is one event of any kind, summarized for listing.
type TimelineEntry struct {
	EventMeta
	Kind    Kind
	Summary string
	Success bool
}

// EventRepo provides append access to diagnostic events.
type EventRepo interface {
	// AppendQuestionFetch records a question-set fetch.
	AppendQuestionFetch(ctx context.Context, data QuestionFetchEventData) error

	// AppendTutorExchange records a tutor query and its outcome.
	AppendTutorExchange(ctx context.Context, data TutorExchangeEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}
