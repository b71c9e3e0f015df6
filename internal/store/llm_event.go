package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

var llmRequestColumns = []string{
	"provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func (e *Events) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := e.insert(ctx, llmRequestEventsTable, llmRequestColumns, []any{
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	})
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func scanLLMEvent(rows interface{ Scan(...any) error }) (LLMEventRecord, error) {
	var r LLMEventRecord
	err := rows.Scan(&r.ID, &r.Sequence, &r.Timestamp,
		&r.Provider, &r.Model, &r.Purpose, &r.InputTokens, &r.OutputTokens,
		&r.LatencyMs, &r.Success, &r.ErrorMessage, &r.RequestBody, &r.ResponseBody)
	return r, err
}

// QueryLLMEvents returns LLM request events, newest first.
func (e *Events) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	query, args := selectEvents(llmRequestEventsTable, opts, llmRequestColumns...)

	var records []LLMEventRecord
	err := e.queryRows(ctx, query, args, func(rows *sql.Rows) error {
		r, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return records, nil
}

// GetLLMEvent returns one LLM request event, or nil if id is unknown.
func (e *Events) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	query, args := selectByID(llmRequestEventsTable, id, llmRequestColumns...)
	r, err := scanLLMEvent(e.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	return &r, nil
}

// LLMUsageByPurpose aggregates LLM calls per purpose, sorted by purpose.
func (e *Events) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return e.llmUsage(ctx, func(r LLMEventRecord) string { return r.Purpose },
		func(u *LLMUsage, key string) { u.Purpose = key })
}

// LLMUsageByModel aggregates LLM calls per model, sorted by model.
func (e *Events) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return e.llmUsage(ctx, func(r LLMEventRecord) string { return r.Model },
		func(u *LLMUsage, key string) { u.Model = key })
}

func (e *Events) llmUsage(ctx context.Context, keyOf func(LLMEventRecord) string, label func(*LLMUsage, string)) ([]LLMUsage, error) {
	events, err := e.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*LLMUsage)
	latency := make(map[string]int64)
	for _, ev := range events {
		k := keyOf(ev)
		u, ok := byKey[k]
		if !ok {
			u = &LLMUsage{}
			label(u, k)
			byKey[k] = u
		}
		u.Calls++
		u.InputTokens += ev.InputTokens
		u.OutputTokens += ev.OutputTokens
		latency[k] += ev.LatencyMs
	}

	usage := make([]LLMUsage, 0, len(byKey))
	for k, u := range byKey {
		u.AvgLatencyMs = latency[k] / int64(u.Calls)
		usage = append(usage, *u)
	}
	sort.Slice(usage, func(i, j int) bool {
		return usage[i].Purpose+usage[i].Model < usage[j].Purpose+usage[j].Model
	})
	return usage, nil
}
