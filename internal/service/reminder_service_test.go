package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderService_DailySummary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := f.signup(t, "a@example.com")
	cat := f.category(t, user.ID, "Work <team>")

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)

	_, err := f.tasks.CreateTask(ctx, user.ID, TaskInput{Name: "standup", CategoryID: cat.ID, DueDate: &morning})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, user.ID, TaskInput{Name: "gym", Description: "legs", CategoryID: cat.ID, DueDate: &evening})
	require.NoError(t, err)

	text, err := f.reminders.DailySummary(ctx, *user, now)
	require.NoError(t, err)

	assert.Contains(t, text, "Today's tasks")
	assert.Contains(t, text, "6:30 PM · gym")
	assert.Contains(t, text, "9:00 AM · standup")
	assert.Contains(t, text, "(Work &lt;team&gt;)")
	assert.Contains(t, text, "📝 legs")
	assert.Contains(t, text, "No completed tasks for today.")
}
