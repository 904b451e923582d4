package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
	"github.com/spf13/cobra"
)

// newLoginCommand creates the login command.
func newLoginCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Username      string
		PasswordStdin bool
	}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the task API",
		Long: `Sign in with a username and password.

The token and user are stored in the config directory (session.json)
and reused by later commands until 'taskboard logout' or until the
token expires.

Examples:
  # Prompt for username and password
  taskboard login

  # Non-interactive
  echo "$PASSWORD" | taskboard login --username alice --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())

			username := opts.Username
			if username == "" {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Username: ")
				line, err := readLine(in)
				if err != nil {
					return err
				}
				username = line
			}

			if !opts.PasswordStdin {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			}
			password, err := readLine(in)
			if err != nil {
				return err
			}

			out, err := c.LoginUseCase().Execute(cmd.Context(), usecase.LoginInput{
				Username: username,
				Password: password,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", out.Session.User.Username, out.Session.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Username (prompted when omitted)")
	cmd.Flags().BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the password from stdin")

	return cmd
}

// readLine reads one line and strips the line ending.
// A final line without a newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("unexpected end of input")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// newLogoutCommand creates the logout command.
func newLogoutCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.LogoutUseCase().Execute(cmd.Context(), usecase.LogoutInput{})
			if err != nil {
				return err
			}
			if out.Username == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out %s\n", out.Username)
			return nil
		},
	}
}

// newWhoamiCommand creates the whoami command.
func newWhoamiCommand(c *app.Container) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long: `Show the signed-in user from the stored session.

With --verify the token is checked against GET /auth/me.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CurrentUserUseCase().Execute(cmd.Context(), usecase.CurrentUserInput{Verify: verify})
			if err != nil {
				return err
			}
			role := out.User.Role
			if role == "" {
				role = "-"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", out.User.Username, role)
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Confirm the token with the server")

	return cmd
}

// stdinConfirmer asks yes/no questions on the command's streams.
type stdinConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// Confirm returns true only for an explicit yes.
func (s stdinConfirmer) Confirm(prompt string) bool {
	_, _ = fmt.Fprintf(s.out, "%s [y/N]: ", prompt)
	line, err := readLine(s.in)
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

var _ domain.Confirmer = stdinConfirmer{}
