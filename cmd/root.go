package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quiztutor/internal/config"
	"github.com/abhisek/quiztutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quiztutor",
	Short: "Terminal quiz with an AI tutor",
	Long: "quiztutor walks through a multiple-choice quiz in the terminal and lets you\n" +
		"ask a tutor about the current question at any time.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (overrides QUIZTUTOR_CONFIG env var)")
	pf.String("db", "", "Path to SQLite event database (overrides QUIZTUTOR_DB env var)")

	f := rootCmd.Flags()
	f.String("questions-url", "", "Question bank endpoint")
	f.String("tutor-url", "", "Tutor endpoint")
	f.String("tutor", "", "Tutor backend: http or llm")
	f.Bool("forward-session", false, "Send the tutor session id back with each query")

	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config (or the default
// location) and layers the command line flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("questions-url") {
		cfg.Questions.URL, _ = flags.GetString("questions-url")
	}
	if flags.Changed("tutor-url") {
		cfg.Tutor.URL, _ = flags.GetString("tutor-url")
	}
	if flags.Changed("tutor") {
		cfg.Tutor.Backend, _ = flags.GetString("tutor")
	}
	if flags.Changed("forward-session") {
		cfg.Tutor.ForwardSessionID, _ = flags.GetBool("forward-session")
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the store.db config value or QUIZTUTOR_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Store.DB != "" {
		return cfg.Store.DB, store.EnsureDir(cfg.Store.DB)
	}
	return store.DefaultDBPath()
}
