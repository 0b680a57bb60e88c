package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskplanner/internal/model"
)

// setupTestDB opens a private in-memory database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordDigest: "digest"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createCategory(t *testing.T, db *gorm.DB, userID uint, name string) *model.Category {
	t.Helper()
	category := &model.Category{UserID: userID, Name: name}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), category))
	return category
}
