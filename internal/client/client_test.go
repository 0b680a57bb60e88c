package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskplanner/internal/apperr"
	"taskplanner/internal/httpapi"
	"taskplanner/internal/repository"
	"taskplanner/internal/service"
)

// newAPI starts the real API over a private in-memory database.
func newAPI(t *testing.T) *httptest.Server {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:client_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	categories := repository.NewCategoryRepository(db)
	tasks := repository.NewTaskRepository(db)
	api := httpapi.New(
		service.NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour),
		service.NewCategoryService(categories),
		service.NewTaskService(tasks, categories),
		time.UTC,
	)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return srv
}

func loggedIn(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	token, err := New(srv.URL).Signup(context.Background(), "ann@example.com", "pa55word", "pa55word")
	require.NoError(t, err)
	return New(srv.URL, WithToken(token))
}

func TestClient_AuthFlow(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()

	anon := New(srv.URL)
	assert.False(t, anon.Authenticated())
	_, err := anon.Signup(ctx, "ann@example.com", "pa55word", "pa55word")
	require.NoError(t, err)

	_, err = anon.Login(ctx, "ann@example.com", "nope")
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.TypeUnauthorized))
	assert.Equal(t, "Invalid email or password", apperr.UserMessage(err))

	token, err := anon.Login(ctx, "ann@example.com", "pa55word")
	require.NoError(t, err)

	c := New(srv.URL, WithToken(token))
	assert.True(t, c.Authenticated())
	user, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	user, err = c.UpdateUser(ctx, user.ID, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)

	require.NoError(t, c.UpdatePassword(ctx, user.ID, "pa55word", "s3cret!!", "s3cret!!"))
	_, err = anon.Login(ctx, "anna@example.com", "s3cret!!")
	require.NoError(t, err)

	require.NoError(t, c.DeleteUser(ctx, user.ID))
	_, err = c.CurrentUser(ctx)
	assert.True(t, apperr.IsType(err, apperr.TypeUnauthorized))
}

func TestClient_Unauthenticated(t *testing.T) {
	srv := newAPI(t)

	_, err := New(srv.URL).ListTasks(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.TypeUnauthorized))
	assert.Equal(t, "User is not authenticated.", apperr.UserMessage(err))
}

func TestClient_CategoriesAndTasks(t *testing.T) {
	srv := newAPI(t)
	c := loggedIn(t, srv)
	ctx := context.Background()

	work, err := c.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	home, err := c.CreateCategory(ctx, "Home")
	require.NoError(t, err)

	_, err = c.CreateCategory(ctx, "Work")
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Name has already been taken"}, e.Fields["name"])

	due := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	task, err := c.CreateTask(ctx, TaskInput{Name: "Report", CategoryID: work.ID, DueDate: &due})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due))

	_, err = c.CreateTask(ctx, TaskInput{Name: "Laundry", CategoryID: home.ID})
	require.NoError(t, err)

	all, err := c.ListTasks(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	homeTasks, err := c.ListTasks(ctx, home.ID)
	require.NoError(t, err)
	require.Len(t, homeTasks, 1)
	assert.Equal(t, "Laundry", homeTasks[0].Name)

	done, err := c.MarkCompleted(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	undone, err := c.SetCompleted(ctx, task.ID, false)
	require.NoError(t, err)
	assert.False(t, undone.IsCompleted)

	name := "Quarterly report"
	edited, err := c.UpdateTask(ctx, task.ID, TaskPatch{Name: &name, ClearDueDate: true})
	require.NoError(t, err)
	assert.Equal(t, "Quarterly report", edited.Name)
	assert.Nil(t, edited.DueDate)

	got, err := c.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, edited.Name, got.Name)

	renamed, err := c.UpdateCategory(ctx, work.ID, "Office")
	require.NoError(t, err)
	assert.Equal(t, "Office", renamed.Name)
	cat, err := c.GetCategory(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Office", cat.Name)

	require.NoError(t, c.DeleteTask(ctx, task.ID))
	require.NoError(t, c.DeleteCategory(ctx, home.ID))
	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	all, err = c.ListTasks(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithToken("tok-123")).ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
}

func TestClient_ServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListCategories(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.TypeRemote))
	assert.Equal(t, "Internal Server Error", apperr.UserMessage(err))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ListTasks(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.TypeNetwork))
	assert.Equal(t, apperr.NetworkMessage, apperr.UserMessage(err))
}

func TestTaskPatch_MarshalJSON(t *testing.T) {
	done := true
	raw, err := TaskPatch{IsCompleted: &done}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_completed":true}`, string(raw))

	raw, err = TaskPatch{ClearDueDate: true}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"due_date":null}`, string(raw))
}
