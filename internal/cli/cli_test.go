package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskplanner/internal/config"
	"taskplanner/internal/httpapi"
	"taskplanner/internal/repository"
	"taskplanner/internal/service"
	"taskplanner/internal/session"
	"taskplanner/internal/today"
)

type harness struct {
	app *App
	out *bytes.Buffer
	err *bytes.Buffer
	in  *bytes.Buffer
	url string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:cli_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	categories := repository.NewCategoryRepository(db)
	api := httpapi.New(
		service.NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour),
		service.NewCategoryService(categories),
		service.NewTaskService(repository.NewTaskRepository(db), categories),
		time.UTC,
	)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.Client{APIURL: srv.URL, Dir: t.TempDir()}
	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}, in: &bytes.Buffer{}, url: srv.URL}
	h.app = &App{
		cfg:   cfg,
		store: session.NewStore(cfg.SessionPath()),
		in:    h.in,
		out:   h.out,
		err:   h.err,
		loc:   time.UTC,
		now:   func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
	return h
}

// run executes args with fresh output buffers.
func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return h.app.Run(context.Background(), args)
}

func (h *harness) signup(t *testing.T) {
	t.Helper()
	require.Equal(t, ExitSuccess, h.run("signup", "-e", "ann@example.com", "-p", "pa55word"), h.err.String())
}

func TestSignupLoginLogout(t *testing.T) {
	h := newHarness(t)

	h.signup(t)
	assert.Contains(t, h.out.String(), "Signed up as ann@example.com")

	sess, err := h.app.store.Load()
	require.NoError(t, err)
	assert.Equal(t, h.url, sess.APIURL)
	assert.NotEmpty(t, sess.Token)

	require.Equal(t, ExitSuccess, h.run("whoami"))
	assert.Contains(t, h.out.String(), "ann@example.com")

	require.Equal(t, ExitSuccess, h.run("logout"))
	assert.Equal(t, ExitAuthError, h.run("whoami"))
	assert.Contains(t, h.err.String(), "not logged in")

	h.in.WriteString("pa55word\n")
	require.Equal(t, ExitSuccess, h.run("login", "-e", "ann@example.com"), h.err.String())
	assert.Contains(t, h.out.String(), "Logged in as ann@example.com")
}

func TestLogin_Failures(t *testing.T) {
	h := newHarness(t)
	h.signup(t)

	assert.Equal(t, ExitAuthError, h.run("login", "-e", "ann@example.com", "-p", "wrong"))
	assert.Contains(t, h.err.String(), "Invalid email or password")

	assert.Equal(t, ExitUserError, h.run("login", "-p", "pa55word"))
	assert.Contains(t, h.err.String(), "Please enter your email")

	assert.Equal(t, ExitUserError, h.run("signup", "-e", "bob@example.com", "-p", "pa55word", "--password-confirmation", "other"))
	assert.Contains(t, h.err.String(), "Passwords do not match")
}

func TestUnreachableServer(t *testing.T) {
	h := newHarness(t)
	h.app.cfg.APIURL = "http://127.0.0.1:1"

	assert.Equal(t, ExitBackendError, h.run("login", "-e", "ann@example.com", "-p", "pa55word"))
}

func TestCategoriesCommands(t *testing.T) {
	h := newHarness(t)
	h.signup(t)

	require.Equal(t, ExitSuccess, h.run("categories", "list"))
	assert.Contains(t, h.out.String(), "No categories.")

	require.Equal(t, ExitSuccess, h.run("categories", "add", "Work"))
	assert.Contains(t, h.out.String(), "Added category #")

	assert.Equal(t, ExitUserError, h.run("categories", "add", "Work"))
	assert.Contains(t, h.err.String(), "Name has already been taken")

	require.Equal(t, ExitSuccess, h.run("categories", "rename", "work", "Office"))
	require.Equal(t, ExitSuccess, h.run("categories", "list"))
	assert.Contains(t, h.out.String(), "Office")
	assert.NotContains(t, h.out.String(), "Work")

	require.Equal(t, ExitSuccess, h.run("categories", "rm", "Office"))
	require.Equal(t, ExitSuccess, h.run("cat", "ls"))
	assert.Contains(t, h.out.String(), "No categories.")

	assert.Equal(t, ExitUserError, h.run("categories", "rm", "Missing"))
	assert.Contains(t, h.err.String(), "not found")
}

func TestTasksCommands(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	require.Equal(t, ExitSuccess, h.run("categories", "add", "Home"))

	require.Equal(t, ExitSuccess, h.run("tasks", "add", "Buy milk", "-c", "Home", "--due", "2024-03-10 09:00"), h.err.String())
	assert.Contains(t, h.out.String(), "Added task #1 Buy milk (due 2024-03-10 09:00)")

	require.Equal(t, ExitSuccess, h.run("tasks", "list", "-c", "home"))
	assert.Contains(t, h.out.String(), "Buy milk")
	assert.Contains(t, h.out.String(), "(Home)")

	require.Equal(t, ExitSuccess, h.run("tasks", "edit", "1", "--name", "Buy oat milk", "--no-due"))
	assert.Contains(t, h.out.String(), "Buy oat milk (due No time entered)")

	require.Equal(t, ExitSuccess, h.run("tasks", "done", "#1"))
	assert.Contains(t, h.out.String(), "Completed #1")
	require.Equal(t, ExitSuccess, h.run("tasks", "ls"))
	assert.Contains(t, h.out.String(), "[x]")

	require.Equal(t, ExitSuccess, h.run("tasks", "undo", "1"))
	require.Equal(t, ExitSuccess, h.run("tasks", "ls"))
	assert.Contains(t, h.out.String(), "[ ]")

	require.Equal(t, ExitSuccess, h.run("tasks", "rm", "1"))
	require.Equal(t, ExitSuccess, h.run("tasks", "ls"))
	assert.Contains(t, h.out.String(), "No tasks.")

	assert.Equal(t, ExitUserError, h.run("tasks", "done", "1"))
}

func TestTasksAdd_Validation(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	require.Equal(t, ExitSuccess, h.run("categories", "add", "Home"))

	assert.Equal(t, ExitUserError, h.run("tasks", "add", "-c", "Home"))
	assert.Contains(t, h.err.String(), "Task name is required")

	assert.Equal(t, ExitUserError, h.run("tasks", "add", "Chore"))
	assert.Contains(t, h.err.String(), "Category is required")

	assert.Equal(t, ExitUserError, h.run("tasks", "add", "Chore", "-c", "Home", "--due", "soon"))
	assert.Contains(t, h.err.String(), "Due date is invalid")

	assert.Equal(t, ExitUserError, h.run("tasks", "edit", "abc"))
	assert.Contains(t, h.err.String(), "invalid task id")
}

func TestTodayCommand(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	require.Equal(t, ExitSuccess, h.run("categories", "add", "Home"))

	add := func(name, due string) {
		args := []string{"tasks", "add", name, "-c", "Home"}
		if due != "" {
			args = append(args, "--due", due)
		}
		require.Equal(t, ExitSuccess, h.run(args...), h.err.String())
	}
	add("Later today", "2024-03-10 18:00")
	add("This morning", "2024-03-10 08:00")
	add("Tomorrow", "2024-03-11 08:00")
	add("Whenever", "")
	add("Finished", "2024-03-10 07:00")
	require.Equal(t, ExitSuccess, h.run("tasks", "done", "5"))

	require.Equal(t, ExitSuccess, h.run("today"))
	out := h.out.String()
	assert.Contains(t, out, "Current (2)")
	assert.Contains(t, out, "Passed due date (1)")
	assert.Contains(t, out, "Complete (1)")
	assert.Contains(t, out, "Later today")
	assert.Contains(t, out, "6:00 PM")
	assert.Contains(t, out, "Whenever")
	assert.Contains(t, out, today.NoTimeLabel)
	assert.NotContains(t, out, "Tomorrow")
	assert.NotContains(t, out, "This morning")

	require.Equal(t, ExitSuccess, h.run("today", "-s", "overdue"))
	assert.Contains(t, h.out.String(), "This morning")
	assert.NotContains(t, h.out.String(), "Later today")

	require.Equal(t, ExitSuccess, h.run("today", "--all"))
	assert.Contains(t, h.out.String(), "This morning")
	assert.Contains(t, h.out.String(), "Finished")

	assert.Equal(t, ExitUserError, h.run("today", "-s", "someday"))
}

func TestTodayCommand_Pages(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	require.Equal(t, ExitSuccess, h.run("categories", "add", "Home"))
	for i := 1; i <= 7; i++ {
		require.Equal(t, ExitSuccess, h.run("tasks", "add", fmt.Sprintf("Task %d", i), "-c", "Home",
			"--due", fmt.Sprintf("2024-03-10 %02d:00", 12+i)))
	}

	require.Equal(t, ExitSuccess, h.run("today"))
	assert.Contains(t, h.out.String(), "page 1/2")
	assert.Contains(t, h.out.String(), "Task 5")
	assert.NotContains(t, h.out.String(), "Task 6")

	require.Equal(t, ExitSuccess, h.run("today", "-p", "9"))
	assert.Contains(t, h.out.String(), "page 2/2")
	assert.Contains(t, h.out.String(), "Task 7")
}

func TestRequiresLogin(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{{"today"}, {"tasks", "ls"}, {"categories", "ls"}} {
		assert.Equal(t, ExitAuthError, h.run(args...), args)
	}
}

func TestSessionFileLocation(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	assert.Equal(t, filepath.Join(h.app.cfg.Dir, config.SessionFile), h.app.store.Path())
}
