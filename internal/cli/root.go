// Package cli implements the planner command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskplanner/internal/apperr"
	"taskplanner/internal/client"
	"taskplanner/internal/config"
	"taskplanner/internal/session"
)

// App carries what every command needs.
type App struct {
	cfg   config.Client
	store *session.Store
	in    io.Reader
	out   io.Writer
	err   io.Writer
	loc   *time.Location
	now   func() time.Time
}

// NewApp builds the CLI from client settings.
func NewApp(cfg config.Client) *App {
	return &App{
		cfg:   cfg,
		store: session.NewStore(cfg.SessionPath()),
		in:    os.Stdin,
		out:   os.Stdout,
		err:   os.Stderr,
		loc:   time.Local,
		now:   time.Now,
	}
}

// Run executes args and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(a.err, errorStyle.Render("Error: "+message(err)))
	}
	return ExitCode(err)
}

func message(err error) string {
	if errors.Is(err, session.ErrNoSession) {
		return "not logged in. Run `planner login` first."
	}
	if e, ok := apperr.As(err); ok {
		msg := apperr.UserMessage(err)
		if summary := e.FieldSummary(); summary != "" && len(e.Fields) > 1 {
			msg += " (" + summary + ")"
		}
		return msg
	}
	return err.Error()
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "A personal task planner",
		Long: `planner manages your tasks and categories on a planner server and shows
today's tasks split into current, passed due date and complete.

CONFIGURATION:
  PLANNER_API_URL      API base URL (default: http://localhost:8080)
  PLANNER_CONFIG_DIR   Where the login session is kept (default: $XDG_CONFIG_HOME/planner)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		a.signupCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.todayCommand(),
		a.tasksCommand(),
		a.categoriesCommand(),
		a.uiCommand(),
	)
	return root
}

// authed returns a client carrying the stored token.
func (a *App) authed() (*client.Client, error) {
	sess, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	baseURL := sess.APIURL
	if baseURL == "" {
		baseURL = a.cfg.APIURL
	}
	return client.New(baseURL, client.WithToken(sess.Token)), nil
}

// usageError marks bad command line input.
func usageError(format string, args ...interface{}) error {
	return apperr.Validation("", fmt.Sprintf(format, args...))
}
