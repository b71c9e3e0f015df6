// Package logging builds the diagnostic zerolog logger. The TUI owns the
// terminal, so log output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger settings.
type Config struct {
	// File is the log file path. "-" logs to stderr; "" resolves to
	// DefaultLogPath.
	File string `yaml:"file"`

	// Level is a zerolog level name: trace, debug, info, warn, error,
	// disabled.
	Level string `yaml:"level"`
}

// DefaultConfig logs at info level to the default file.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// ApplyEnv overrides cfg with QUIZTUTOR_LOG_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("QUIZTUTOR_LOG_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("QUIZTUTOR_LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
}

// Validate checks the level name.
func (c Config) Validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}

// DefaultLogPath resolves the log file path:
// 1. $XDG_STATE_HOME/quiztutor/quiztutor.log
// 2. ~/.local/state/quiztutor/quiztutor.log
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "quiztutor", "quiztutor.log"), nil
}

// New returns a logger for cfg and a close function for its output.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	out, closeFn, err := open(cfg.File)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	logger := NewWriter(out).Level(lvl)
	return logger, closeFn, nil
}

// NewWriter returns a timestamped logger writing JSON lines to w.
func NewWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func open(path string) (io.Writer, func() error, error) {
	if path == "-" {
		cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		return cw, func() error { return nil }, nil
	}
	if path == "" {
		p, err := DefaultLogPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}
