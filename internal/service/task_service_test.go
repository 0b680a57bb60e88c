package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskplanner/internal/apperr"
)

func TestCategoryService_CreateRenameDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := f.signup(t, "a@example.com")

	_, err := f.categories.Create(ctx, user.ID, "   ")
	assert.True(t, apperr.IsType(err, apperr.TypeValidation))

	work := f.category(t, user.ID, " Work ")
	assert.Equal(t, "Work", work.Name)

	_, err = f.categories.Create(ctx, user.ID, "work")
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.TypeConflict))
	assert.Equal(t, "Name has already been taken", apperr.UserMessage(err))

	home := f.category(t, user.ID, "Home")
	_, err = f.categories.Rename(ctx, user.ID, home.ID, "Work")
	assert.True(t, apperr.IsType(err, apperr.TypeConflict))

	renamed, err := f.categories.Rename(ctx, user.ID, home.ID, "House")
	require.NoError(t, err)
	assert.Equal(t, "House", renamed.Name)

	_, err = f.tasks.CreateTask(ctx, user.ID, TaskInput{Name: "sweep", CategoryID: home.ID})
	require.NoError(t, err)
	require.NoError(t, f.categories.Delete(ctx, user.ID, home.ID))

	tasks, err := f.tasks.ListTasks(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = f.categories.Get(ctx, user.ID, home.ID)
	assert.True(t, apperr.IsType(err, apperr.TypeNotFound))
}

func TestTaskService_CreateTask(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := f.signup(t, "a@example.com")
	stranger := f.signup(t, "b@example.com")
	cat := f.category(t, user.ID, "Work")
	foreign := f.category(t, stranger.ID, "Theirs")

	tests := []struct {
		name     string
		input    TaskInput
		wantType *apperr.Type
	}{
		{name: "valid", input: TaskInput{Name: "report", CategoryID: cat.ID}},
		{name: "blank name", input: TaskInput{Name: " ", CategoryID: cat.ID}, wantType: typ(apperr.TypeValidation)},
		{name: "no category", input: TaskInput{Name: "report"}, wantType: typ(apperr.TypeValidation)},
		{name: "foreign category", input: TaskInput{Name: "report", CategoryID: foreign.ID}, wantType: typ(apperr.TypeNotFound)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := f.tasks.CreateTask(ctx, user.ID, tt.input)
			if tt.wantType != nil {
				require.Error(t, err)
				assert.True(t, apperr.IsType(err, *tt.wantType))
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, task.ID)
			assert.False(t, task.IsCompleted)
		})
	}
}

func TestTaskService_CreateCompleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := f.signup(t, "a@example.com")
	cat := f.category(t, user.ID, "Work")

	task, err := f.tasks.CreateTask(ctx, user.ID, TaskInput{Name: "filed", CategoryID: cat.ID, Completed: true})
	require.NoError(t, err)
	assert.True(t, task.IsCompleted)

	stored, err := f.tasks.GetTask(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)

	_, err = f.tasks.CreateTask(ctx, user.ID, TaskInput{Name: "lost", CategoryID: cat.ID + 100, Completed: true})
	require.Error(t, err)

	all, err := f.tasks.ListTasks(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTaskService_UpdateAndComplete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := f.signup(t, "a@example.com")
	work := f.category(t, user.ID, "Work")
	home := f.category(t, user.ID, "Home")

	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	task, err := f.tasks.CreateTask(ctx, user.ID, TaskInput{Name: "report", CategoryID: work.ID, DueDate: &due})
	require.NoError(t, err)

	name := "final report"
	updated, err := f.tasks.UpdateTask(ctx, user.ID, task.ID, TaskPatch{Name: &name, CategoryID: &home.ID})
	require.NoError(t, err)
	assert.Equal(t, "final report", updated.Name)
	assert.Equal(t, home.ID, updated.CategoryID)
	require.NotNil(t, updated.DueDate)

	updated, err = f.tasks.UpdateTask(ctx, user.ID, task.ID, TaskPatch{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	blank := ""
	_, err = f.tasks.UpdateTask(ctx, user.ID, task.ID, TaskPatch{Name: &blank})
	assert.True(t, apperr.IsType(err, apperr.TypeValidation))

	done, err := f.tasks.CompleteTask(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	undone, err := f.tasks.SetCompleted(ctx, user.ID, task.ID, false)
	require.NoError(t, err)
	assert.False(t, undone.IsCompleted)

	reloaded, err := f.tasks.GetTask(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsCompleted)

	require.NoError(t, f.tasks.DeleteTask(ctx, user.ID, task.ID))
	assert.True(t, apperr.IsType(f.tasks.DeleteTask(ctx, user.ID, task.ID), apperr.TypeNotFound))
}

func TestTaskService_ListUnknownCategory(t *testing.T) {
	f := setup(t)
	user := f.signup(t, "a@example.com")

	_, err := f.tasks.ListTasks(context.Background(), user.ID, 999)
	assert.True(t, apperr.IsType(err, apperr.TypeNotFound))
}

func TestTaskService_Today(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := f.signup(t, "a@example.com")
	cat := f.category(t, user.ID, "Work")

	loc := time.UTC
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, loc)
	morning := time.Date(2024, 1, 1, 9, 0, 0, 0, loc)
	evening := time.Date(2024, 1, 1, 18, 0, 0, 0, loc)
	yesterday := time.Date(2023, 12, 31, 18, 0, 0, 0, loc)

	for _, in := range []TaskInput{
		{Name: "morning", CategoryID: cat.ID, DueDate: &morning},
		{Name: "evening", CategoryID: cat.ID, DueDate: &evening},
		{Name: "yesterday", CategoryID: cat.ID, DueDate: &yesterday},
	} {
		_, err := f.tasks.CreateTask(ctx, user.ID, in)
		require.NoError(t, err)
	}

	buckets, err := f.tasks.Today(ctx, user.ID, now)
	require.NoError(t, err)
	require.Len(t, buckets.Current, 1)
	require.Len(t, buckets.Overdue, 1)
	assert.Equal(t, "evening", buckets.Current[0].Name)
	assert.Equal(t, "morning", buckets.Overdue[0].Name)
	assert.Empty(t, buckets.Completed)
}

func typ(t apperr.Type) *apperr.Type { return &t }
