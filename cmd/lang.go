package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examencivique/examencivique/internal/i18n"
)

var langCmd = &cobra.Command{
	Use:       "lang [fr|zh]",
	Short:     "Show or set the interface language",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(i18n.FR), string(i18n.ZH)},
	RunE: func(cmd *cobra.Command, args []string) error {
		var lang i18n.Language
		if len(args) == 1 {
			l, err := parseLanguage(args[0])
			if err != nil {
				return err
			}
			lang = l
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if lang != "" {
			if err := e.lang.Set(cmd.Context(), lang); err != nil {
				return fmt.Errorf("save language: %w", err)
			}
		}
		cur := e.lang.Language()
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", cur, cur.Label())
		return nil
	},
}

// parseLanguage is strict where i18n.Parse falls back to French.
func parseLanguage(code string) (i18n.Language, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "fr", "français", "francais":
		return i18n.FR, nil
	}
	if l := i18n.Parse(code); l != i18n.FR {
		return l, nil
	}
	return "", fmt.Errorf("unknown language %q (want fr or zh)", code)
}
