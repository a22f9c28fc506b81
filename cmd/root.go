package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/examencivique/examencivique/internal/config"
	"github.com/examencivique/examencivique/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "examencivique",
	Short: "French civic exam trainer",
	Long: "examencivique prepares candidates for the French civic exam: study the official\n" +
		"question bank by theme and sit timed mock exams (40 questions, 45 minutes).",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// ExecuteContext runs the command tree with ctx, cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EXAMCIVIQUE_DB env var)")
	rootCmd.Flags().Bool("no-welcome", false, "Skip the welcome screen")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using the --db flag (highest
// priority), then EXAMCIVIQUE_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
