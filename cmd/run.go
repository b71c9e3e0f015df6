package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/quiztutor/internal/app"
	"github.com/abhisek/quiztutor/internal/audit"
	"github.com/abhisek/quiztutor/internal/backend"
	"github.com/abhisek/quiztutor/internal/config"
	"github.com/abhisek/quiztutor/internal/llm"
	"github.com/abhisek/quiztutor/internal/logging"
	"github.com/abhisek/quiztutor/internal/store"
	"github.com/abhisek/quiztutor/internal/tutor"
	"github.com/abhisek/quiztutor/internal/tutor/llmtutor"
)

// runApp loads configuration, opens the store, builds the question source
// and tutor, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("quiztutor needs an interactive terminal")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	events := st.Events()
	source := audit.WrapSource(
		backend.NewQuestionSource(cfg.Questions, nil),
		cfg.Questions.URL, events, log,
	)

	tt, err := newTutor(cmd, cfg, events, log)
	if err != nil {
		return err
	}

	log.Info().
		Str("questions_url", cfg.Questions.URL).
		Str("tutor_backend", cfg.Tutor.Backend).
		Str("db", dbPath).
		Msg("starting")

	return app.Run(app.Options{Source: source, Tutor: tt, Log: log})
}

func newTutor(cmd *cobra.Command, cfg config.Config, events store.EventRepo, log zerolog.Logger) (tutor.Tutor, error) {
	switch cfg.Tutor.Backend {
	case "llm":
		llmCfg := cfg.LLM
		if t := cfg.Tutor.Timeout; t > 0 && (llmCfg.Timeout == 0 || llmCfg.Timeout > t) {
			llmCfg.Timeout = t
		}
		provider, err := llm.NewProvider(cmd.Context(), llmCfg, events, log)
		if err != nil {
			return nil, fmt.Errorf("LLM tutor: %w", err)
		}
		return audit.WrapTutor(llmtutor.New(provider), "llm", events, log), nil
	default:
		return audit.WrapTutor(backend.NewHTTPTutor(cfg.Tutor, nil), "http", events, log), nil
	}
}
