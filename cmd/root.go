package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/config"
	"github.com/abhisek/quizly/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizly",
	Short: "Quiz and flashcard generator for your study material",
	Long: "Quizly turns notes and PDFs into timed quizzes with flashcards and leaderboards,\n" +
		"generates downloadable mock tests, and manages your generation plan.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZLY_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("api-url", "", "Backend API base URL (overrides QUIZLY_API_URL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(mocktestCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(devserverCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config and applies the
// --api-url override.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.API.BaseURL = u
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZLY_DB / the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
