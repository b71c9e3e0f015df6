package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}

	last, ok := mock.LastCall()
	if !ok || last.Messages[0].Content != "second" {
		t.Fatalf("last call = %+v", last)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_Fallback(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = echoFallback

	resp, err := mock.Generate(context.Background(), Request{
		Schema:   replySchema(),
		Messages: []Message{{Role: RoleUser, Content: "why?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct{ Msg string }
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Msg != "(mock tutor) You asked: why?" {
		t.Errorf("msg = %q", out.Msg)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"other":1}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: replySchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected %q, got %q", PurposeUnknown, p)
	}

	ctx = WithPurpose(ctx, PurposeTutor)
	if p := PurposeFrom(ctx); p != PurposeTutor {
		t.Fatalf("expected %q, got %q", PurposeTutor, p)
	}
}

func TestConfig_Validate(t *testing.T) {
	withKey := func(mutate func(*Config)) Config {
		cfg := DefaultConfig()
		mutate(&cfg)
		return cfg
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", withKey(func(c *Config) {}), true},
		{"anthropic with key", withKey(func(c *Config) { c.Anthropic.APIKey = "sk-test" }), false},
		{"openai without key", withKey(func(c *Config) { c.Provider = "openai" }), true},
		{"openai with key", withKey(func(c *Config) { c.Provider = "openai"; c.OpenAI.APIKey = "sk-test" }), false},
		{"openrouter with key", withKey(func(c *Config) { c.Provider = "openrouter"; c.OpenRouter.APIKey = "sk-or" }), false},
		{"mock needs no key", withKey(func(c *Config) { c.Provider = "mock" }), false},
		{"zero attempts", withKey(func(c *Config) { c.Anthropic.APIKey = "k"; c.Retry.MaxAttempts = 0 }), true},
		{"unknown provider", withKey(func(c *Config) { c.Provider = "unknown" }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("QUIZTUTOR_LLM_PROVIDER", "gemini")
	t.Setenv("QUIZTUTOR_GEMINI_API_KEY", "g-key")
	t.Setenv("QUIZTUTOR_GEMINI_MODEL", "gemini-pro")

	cfg := ConfigFromEnv()
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg := DefaultConfig()
	if DiscoverConfig(&cfg) {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("OPENAI_API_KEY", "sk-open")
	if !DiscoverConfig(&cfg) {
		t.Fatal("expected openai to be discovered")
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-open" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"

	repo := &recordingRepo{}
	p, err := NewProvider(context.Background(), cfg, repo, nopLogger())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p.Name() != "mock" || p.ModelID() != "mock" {
		t.Errorf("name/model = %s/%s", p.Name(), p.ModelID())
	}

	ctx := WithPurpose(context.Background(), PurposeTutor)
	if _, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(repo.llm) != 1 || repo.llm[0].Purpose != PurposeTutor {
		t.Errorf("recorded = %+v", repo.llm)
	}
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"
	if _, err := NewProvider(context.Background(), cfg, nil, nopLogger()); err == nil {
		t.Fatal("expected error")
	}
}
