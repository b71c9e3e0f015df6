package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var questionFetchColumns = []string{"url", "question_count", "latency_ms", "success", "error_message"}

func (e *Events) AppendQuestionFetch(ctx context.Context, data QuestionFetchEventData) error {
	err := e.insert(ctx, questionFetchEventsTable, questionFetchColumns, []any{
		data.URL, data.QuestionCount, data.LatencyMs, data.Success, data.ErrorMessage,
	})
	if err != nil {
		return fmt.Errorf("save question fetch event: %w", err)
	}
	return nil
}

func scanQuestionFetch(rows interface{ Scan(...any) error }) (QuestionFetchRecord, error) {
	var r QuestionFetchRecord
	err := rows.Scan(&r.ID, &r.Sequence, &r.Timestamp,
		&r.URL, &r.QuestionCount, &r.LatencyMs, &r.Success, &r.ErrorMessage)
	return r, err
}

// QueryQuestionFetches returns question fetch events, newest first.
func (e *Events) QueryQuestionFetches(ctx context.Context, opts QueryOpts) ([]QuestionFetchRecord, error) {
	query, args := selectEvents(questionFetchEventsTable, opts, questionFetchColumns...)

	var records []QuestionFetchRecord
	err := e.queryRows(ctx, query, args, func(rows *sql.Rows) error {
		r, err := scanQuestionFetch(rows)
		if err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query question fetch events: %w", err)
	}
	return records, nil
}

// GetQuestionFetch returns one question fetch event, or nil if id is unknown.
func (e *Events) GetQuestionFetch(ctx context.Context, id int) (*QuestionFetchRecord, error) {
	query, args := selectByID(questionFetchEventsTable, id, questionFetchColumns...)
	r, err := scanQuestionFetch(e.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question fetch event: %w", err)
	}
	return &r, nil
}
