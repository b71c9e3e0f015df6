package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/quiztutor/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// deadline, retry and logging decorators.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log zerolog.Logger) (Provider, error) {
	base, err := newBaseProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → logging → base
	logged := WithLogging(base, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry, log)
	return WithTimeout(retried, cfg.Timeout), nil
}

func newBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case providerAnthropic:
		return NewAnthropicProvider(cfg.Anthropic)
	case providerOpenAI:
		return NewOpenAIProvider(cfg.OpenAI)
	case providerGemini:
		return NewGeminiProvider(ctx, cfg.Gemini)
	case providerOpenRouter:
		return NewOpenRouterProvider(cfg.OpenRouter)
	case providerMock:
		m := NewMockProvider()
		m.Fallback = echoFallback
		return m, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

// echoFallback answers every request with a tutor-shaped message quoting
// the last user turn, so the mock provider works end to end offline.
func echoFallback(req Request) MockResponse {
	last := ""
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	content, _ := json.Marshal(map[string]string{
		"msg": fmt.Sprintf("(mock tutor) You asked: %s", last),
	})
	return MockResponse{Content: content}
}
