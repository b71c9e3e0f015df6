package backend

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultAddr is where `quiztutor serve` listens unless told otherwise.
const DefaultAddr = "127.0.0.1:8787"

// Config holds the HTTP endpoints of the question bank and the tutor.
type Config struct {
	Questions QuestionsConfig `yaml:"questions"`
	Tutor     TutorConfig     `yaml:"tutor"`
}

// QuestionsConfig configures the question-bank endpoint.
type QuestionsConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"` // Default: 15s. Zero disables.
}

// TutorConfig configures the tutor endpoint.
type TutorConfig struct {
	// Backend selects the tutor implementation.
	// Values: "http", "llm"
	Backend string `yaml:"backend"`

	URL string `yaml:"url"`

	// Timeout bounds one tutor request. Default: 60s. Zero disables.
	Timeout time.Duration `yaml:"timeout"`

	// ForwardSessionID sends the recorded session id back to the tutor
	// endpoint as "session_id".
	ForwardSessionID bool `yaml:"forward_session_id"`
}

// DefaultConfig points both endpoints at the local fixture server.
func DefaultConfig() Config {
	return Config{
		Questions: QuestionsConfig{
			URL:     "http://" + DefaultAddr + "/questions",
			Timeout: 15 * time.Second,
		},
		Tutor: TutorConfig{
			Backend: "http",
			URL:     "http://" + DefaultAddr + "/ai-tutor/",
			Timeout: 60 * time.Second,
		},
	}
}

// ApplyEnv overrides cfg with QUIZTUTOR_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("QUIZTUTOR_QUESTIONS_URL"); v != "" {
		cfg.Questions.URL = v
	}
	if v := os.Getenv("QUIZTUTOR_QUESTIONS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUIZTUTOR_QUESTIONS_TIMEOUT: %w", err)
		}
		cfg.Questions.Timeout = d
	}
	if v := os.Getenv("QUIZTUTOR_TUTOR_BACKEND"); v != "" {
		cfg.Tutor.Backend = v
	}
	if v := os.Getenv("QUIZTUTOR_TUTOR_URL"); v != "" {
		cfg.Tutor.URL = v
	}
	if v := os.Getenv("QUIZTUTOR_TUTOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUIZTUTOR_TUTOR_TIMEOUT: %w", err)
		}
		cfg.Tutor.Timeout = d
	}
	if v := os.Getenv("QUIZTUTOR_TUTOR_FORWARD_SESSION_ID"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUIZTUTOR_TUTOR_FORWARD_SESSION_ID: %w", err)
		}
		cfg.Tutor.ForwardSessionID = b
	}
	return nil
}

// Validate checks the endpoints that the selected backends need.
func (c Config) Validate() error {
	if err := validURL("questions.url", c.Questions.URL); err != nil {
		return err
	}
	if c.Questions.Timeout < 0 {
		return fmt.Errorf("questions.timeout must not be negative")
	}
	if c.Tutor.Timeout < 0 {
		return fmt.Errorf("tutor.timeout must not be negative")
	}

	switch c.Tutor.Backend {
	case "http":
		return validURL("tutor.url", c.Tutor.URL)
	case "llm":
		return nil
	default:
		return fmt.Errorf("unknown tutor backend: %q", c.Tutor.Backend)
	}
}

func validURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q", key, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host", key)
	}
	return nil
}
