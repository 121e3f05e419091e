package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/liste/internal/auth"
	"github.com/idilsaglam/liste/internal/remote"
	"github.com/idilsaglam/liste/internal/ui"
)

func NewCmdAuth(s *State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the credentials used against the list service",
	}
	cmd.AddCommand(newCmdLogin(s), newCmdLogout(s), newCmdStatus(s))
	return cmd
}

func newCmdLogin(s *State) *cobra.Command {
	var (
		username string
		noVerify bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a password for the list service",
		Long: heredoc.Doc(`
			Read the service password from stdin and store it in ~/.liste/credentials.json
			(owner-only permissions). The password is checked against the service first
			unless --no-verify is given. LISTE_PASSWORD, when set, takes precedence.
		`),
		Args: maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = s.Config.Server.Username
			}
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			password, err := readLine(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if password == "" {
				return usagef("login: %v", auth.ErrEmptyPassword)
			}
			fmt.Fprintln(cmd.OutOrStdout())

			if !noVerify {
				c, err := remote.NewHTTPClient(remote.Options{
					BaseURL:  s.Config.Server.URL,
					Username: username,
					Password: password,
					Timeout:  s.Config.Server.Timeout,
				})
				if err != nil {
					return err
				}
				if _, err := c.Lists(cmd.Context()); err != nil {
					var se *remote.StatusError
					if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
						return errors.New("the service rejected these credentials")
					}
					return fmt.Errorf("verify: %w", err)
				}
			}
			if err := auth.Save(username, password); err != nil {
				return fmt.Errorf("save credentials: %w", err)
			}
			ui.OK("logged in as " + username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "user name (default from server.username)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "store without checking against the service")
	return cmd
}

func newCmdLogout(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored password",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _ := auth.Get()
			if c != nil && c.Source == "env" {
				ui.OK("password is provided by " + auth.PasswordEnv + " (nothing to delete)")
				return nil
			}
			if err := auth.Delete(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK("logged out")
			return nil
		},
	}
}

func newCmdStatus(s *State) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the credentials come from",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			t := ui.Current()
			fmt.Fprintf(out, "server: %s\n", s.Config.Server.URL)
			if s.Config.Server.Password != "" {
				fmt.Fprintln(out, "source: config (server.password)")
				return nil
			}
			c, err := auth.Get()
			if err != nil {
				return err
			}
			if c == nil {
				fmt.Fprintln(out, ui.C(t.Muted, "not logged in"))
				fmt.Fprintln(out, "Run: liste auth login")
				return nil
			}
			user := c.Username
			if user == "" {
				user = s.Config.Server.Username
			}
			fmt.Fprintf(out, "source: %s\n", c.Source)
			fmt.Fprintf(out, "username: %s\n", user)
			if !c.CreatedAt.IsZero() {
				fmt.Fprintf(out, "saved: %s\n", c.CreatedAt.UTC().Format(time.RFC3339))
			}
			fmt.Fprintln(out, "env override: "+auth.PasswordEnv)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
