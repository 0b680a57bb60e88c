package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskplanner/internal/model"
	"taskplanner/internal/repository"
)

type fixture struct {
	db         *gorm.DB
	auth       *AuthService
	categories *CategoryService
	tasks      *TaskService
	reminders  *ReminderService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	tasks := repository.NewTaskRepository(db)

	return &fixture{
		db:         db,
		auth:       NewAuthService(users, "test-secret", time.Hour),
		categories: NewCategoryService(categories),
		tasks:      NewTaskService(tasks, categories),
		reminders:  NewReminderService(tasks, categories),
	}
}

func (f *fixture) signup(t *testing.T, email string) *model.User {
	t.Helper()
	_, user, err := f.auth.Signup(context.Background(), email, "pa55word", "pa55word")
	require.NoError(t, err)
	return user
}

func (f *fixture) category(t *testing.T, userID uint, name string) *model.Category {
	t.Helper()
	cat, err := f.categories.Create(context.Background(), userID, name)
	require.NoError(t, err)
	return cat
}
