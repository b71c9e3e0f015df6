package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quiztutor/internal/backend"
	"github.com/abhisek/quiztutor/internal/devserver"
	"github.com/abhisek/quiztutor/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local question bank and tutor endpoint",
	Long: "serve answers GET /questions with a fixture question set and POST /ai-tutor/\n" +
		"with canned tutor replies, so the quiz can be tried without a real backend.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		addr, _ := flags.GetString("addr")
		questionsPath, _ := flags.GetString("questions")
		delay, _ := flags.GetDuration("delay")
		failTutor, _ := flags.GetBool("fail-tutor")
		level, _ := flags.GetString("log-level")

		log, _, err := logging.New(logging.Config{File: "-", Level: level})
		if err != nil {
			return err
		}

		var questions []byte
		if questionsPath != "" {
			questions, err = devserver.LoadQuestions(questionsPath)
			if err != nil {
				return fmt.Errorf("load questions: %w", err)
			}
		}

		srv := &http.Server{
			Addr: addr,
			Handler: devserver.NewRouter(devserver.Options{
				Questions: questions,
				Delay:     delay,
				FailTutor: failTutor,
				Log:       log,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("fixture server listening")
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", backend.DefaultAddr, "Listen address")
	f.String("questions", "", "YAML or JSON question file (default: built-in fixture)")
	f.Duration("delay", 0, "Delay before every tutor reply")
	f.Bool("fail-tutor", false, "Answer every tutor request with 503")
	f.String("log-level", "info", "Log level")
}
