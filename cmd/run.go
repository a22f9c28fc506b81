package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/examencivique/examencivique/internal/app"
)

// runApp opens the environment and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.report.Err != nil {
		fmt.Fprintln(os.Stderr, "warning: question bank unavailable:", e.report.Err)
	} else if n := len(e.report.Dropped); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d invalid questions skipped, see `examencivique questions check`\n", n)
	}

	skipWelcome, _ := cmd.Flags().GetBool("no-welcome")
	e.logger.Info("tui starting", "questions", e.catalog.Len(), "language", e.lang.Language())
	if err := app.Run(cmd.Context(), e.deps(), skipWelcome); err != nil {
		return err
	}
	e.logger.Info("tui exited")
	return nil
}
