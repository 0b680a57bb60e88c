package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskplanner/internal/apperr"
	"taskplanner/internal/client"
	"taskplanner/internal/session"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password (read from stdin when omitted)")
}

// resolve fills a missing password from the first line of stdin and checks
// both values are present.
func (f *credentialFlags) resolve(cmd *cobra.Command) (string, string, error) {
	email := strings.TrimSpace(f.email)
	password := f.password
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err == nil || line != "" {
			password = strings.TrimRight(line, "\r\n")
		}
	}
	switch {
	case email == "" && password == "":
		return "", "", apperr.Validation("", "Please enter both email and password")
	case email == "":
		return "", "", apperr.Validation("email", "Please enter your email")
	case password == "":
		return "", "", apperr.Validation("password", "Please enter your password")
	}
	return email, password, nil
}

func (a *App) saveSession(email, token string) error {
	return a.store.Save(session.Session{APIURL: a.cfg.APIURL, Email: email, Token: token})
}

func (a *App) signupCommand() *cobra.Command {
	var creds credentialFlags
	var confirmation string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			if confirmation == "" {
				confirmation = password
			}
			if confirmation != password {
				return apperr.Validation("password_confirmation", "Passwords do not match")
			}

			token, err := client.New(a.cfg.APIURL).Signup(cmd.Context(), email, password, confirmation)
			if err != nil {
				return err
			}
			if err := a.saveSession(email, token); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Signed up as %s", email)
			return nil
		},
	}
	creds.register(cmd)
	cmd.Flags().StringVar(&confirmation, "password-confirmation", "", "repeat the password (defaults to --password)")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			token, err := client.New(a.cfg.APIURL).Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.saveSession(email, token); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Logged in as %s", email)
			return nil
		},
	}
	creds.register(cmd)
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authed()
			if err != nil {
				return err
			}
			user, err := c.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d) at %s\n", user.Email, user.ID, c.BaseURL())
			return nil
		},
	}
}
