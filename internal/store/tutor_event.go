package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var tutorExchangeColumns = []string{
	"backend", "question_index", "answer", "query", "reply",
	"session_id", "latency_ms", "success", "error_message",
}

func (e *Events) AppendTutorExchange(ctx context.Context, data TutorExchangeEventData) error {
	err := e.insert(ctx, tutorExchangeEventsTable, tutorExchangeColumns, []any{
		data.Backend, data.QuestionIndex, data.Answer, data.Query, data.Reply,
		data.SessionID, data.LatencyMs, data.Success, data.ErrorMessage,
	})
	if err != nil {
		return fmt.Errorf("save tutor exchange event: %w", err)
	}
	return nil
}

func scanTutorExchange(rows interface{ Scan(...any) error }) (TutorExchangeRecord, error) {
	var r TutorExchangeRecord
	err := rows.Scan(&r.ID, &r.Sequence, &r.Timestamp,
		&r.Backend, &r.QuestionIndex, &r.Answer, &r.Query, &r.Reply,
		&r.SessionID, &r.LatencyMs, &r.Success, &r.ErrorMessage)
	return r, err
}

// QueryTutorExchanges returns tutor exchanges, newest first.
func (e *Events) QueryTutorExchanges(ctx context.Context, opts QueryOpts) ([]TutorExchangeRecord, error) {
	query, args := selectEvents(tutorExchangeEventsTable, opts, tutorExchangeColumns...)

	var records []TutorExchangeRecord
	err := e.queryRows(ctx, query, args, func(rows *sql.Rows) error {
		r, err := scanTutorExchange(rows)
		if err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query tutor exchange events: %w", err)
	}
	return records, nil
}

// GetTutorExchange returns one tutor exchange, or nil if id is unknown.
func (e *Events) GetTutorExchange(ctx context.Context, id int) (*TutorExchangeRecord, error) {
	query, args := selectByID(tutorExchangeEventsTable, id, tutorExchangeColumns...)
	r, err := scanTutorExchange(e.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tutor exchange event: %w", err)
	}
	return &r, nil
}

// TutorSessionCounts returns the number of successful exchanges per
// backend-issued session id. Exchanges without a session id are counted
// under "".
func (e *Events) TutorSessionCounts(ctx context.Context) (map[string]int, error) {
	records, err := e.QueryTutorExchanges(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range records {
		if r.Success {
			counts[r.SessionID]++
		}
	}
	return counts, nil
}
