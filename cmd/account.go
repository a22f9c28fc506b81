package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examencivique/examencivique/internal/auth"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the local account",
}

var accountRegisterCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPassword(cmd, args[0], func(e *env, password string) (auth.User, error) {
			return e.auth.Register(cmd.Context(), args[0], password)
		})
	},
}

var accountLoginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPassword(cmd, args[0], func(e *env, password string) (auth.User, error) {
			return e.auth.SignIn(cmd.Context(), args[0], password)
		})
	},
}

var accountLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.auth.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var accountWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		u, ok := e.auth.CurrentUser(cmd.Context())
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (since %s)\n", u.Email, u.CreatedAt.Local().Format("2006-01-02"))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{accountRegisterCmd, accountLoginCmd} {
		c.Flags().StringP("password", "p", "", "Password (read from stdin when omitted)")
	}

	accountCmd.AddCommand(accountRegisterCmd)
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountLogoutCmd)
	accountCmd.AddCommand(accountWhoamiCmd)
}

// withPassword resolves the password, opens the environment and runs fn,
// printing the signed-in account or a readable error.
func withPassword(cmd *cobra.Command, email string, fn func(*env, string) (auth.User, error)) error {
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", email)
		p, err := readPassword(cmd.InOrStdin())
		if err != nil {
			return err
		}
		password = p
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	u, err := fn(e, password)
	if err != nil {
		return fmt.Errorf("%s: %w", e.strings().AuthError(err), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", u.Email)
	return nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}
