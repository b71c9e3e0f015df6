package store

import (
	"context"
	"fmt"
	"sort"
)

// Timeline merges every event kind into one newest-first listing ordered
// by the global sequence. opts applies to each kind before merging and
// opts.Limit once more to the merged result.
func (e *Events) Timeline(ctx context.Context, opts QueryOpts) ([]TimelineEntry, error) {
	var entries []TimelineEntry

	fetches, err := e.QueryQuestionFetches(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, f := range fetches {
		summary := fmt.Sprintf("%d questions from %s", f.QuestionCount, f.URL)
		if !f.Success {
			summary = f.ErrorMessage
		}
		entries = append(entries, TimelineEntry{
			EventMeta: f.EventMeta,
			Kind:      KindQuestionFetch,
			Summary:   summary,
			Success:   f.Success,
		})
	}

	exchanges, err := e.QueryTutorExchanges(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, x := range exchanges {
		entries = append(entries, TimelineEntry{
			EventMeta: x.EventMeta,
			Kind:      KindTutorExchange,
			Summary:   fmt.Sprintf("[%s] q%d: %s", x.Backend, x.QuestionIndex+1, x.Query),
			Success:   x.Success,
		})
	}

	calls, err := e.QueryLLMEvents(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, c := range calls {
		entries = append(entries, TimelineEntry{
			EventMeta: c.EventMeta,
			Kind:      KindLLMRequest,
			Summary:   fmt.Sprintf("%s %s (%d/%d tokens)", c.Purpose, c.Model, c.InputTokens, c.OutputTokens),
			Success:   c.Success,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Sequence > entries[j].Sequence
	})
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries, nil
}

// FindSequence locates the event carrying sequence number seq. It returns
// ok=false when no table has it.
func (e *Events) FindSequence(ctx context.Context, seq int64) (Kind, int, bool, error) {
	opts := QueryOpts{After: seq - 1, Before: seq + 1, Limit: 1}
	entries, err := e.Timeline(ctx, opts)
	if err != nil {
		return "", 0, false, err
	}
	if len(entries) == 0 {
		return "", 0, false, nil
	}
	return entries[0].Kind, entries[0].ID, true, nil
}
