package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/abhisek/quiztutor/internal/store"
)

type recordingRepo struct {
	llm []store.LLMRequestEventData
	err error
}

func (r *recordingRepo) AppendQuestionFetch(context.Context, store.QuestionFetchEventData) error {
	return r.err
}

func (r *recordingRepo) AppendTutorExchange(context.Context, store.TutorExchangeEventData) error {
	return r.err
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.llm = append(r.llm, data)
	return r.err
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func TestLogging_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"msg":"ok"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4},
	})
	repo := &recordingRepo{}
	p := WithLogging(mock, repo, nopLogger())

	ctx := WithPurpose(context.Background(), PurposeTutor)
	_, err := p.Generate(ctx, Request{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "why?"}},
		Schema:   replySchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.llm) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.llm))
	}
	ev := repo.llm[0]
	if ev.Provider != "mock" || ev.Purpose != PurposeTutor || !ev.Success {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 4 {
		t.Errorf("tokens = %d/%d", ev.InputTokens, ev.OutputTokens)
	}
	if ev.ResponseBody != `{"msg":"ok"}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
	for _, want := range []string{"[system]\nbe brief", "[user]\nwhy?", "[schema: test-reply]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ev.RequestBody)
		}
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: errors.New("boom")})
	repo := &recordingRepo{}

	var buf bytes.Buffer
	p := WithLogging(mock, repo, zerolog.New(&buf))

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.llm) != 1 || repo.llm[0].Success || repo.llm[0].ErrorMessage != "boom" {
		t.Fatalf("unexpected events %+v", repo.llm)
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("expected a warn log line, got %s", buf.String())
	}
}

func TestLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(mock, repo, nopLogger())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
