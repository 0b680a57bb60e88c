package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_UnmarshalJSON_DueDate(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *time.Time
	}{
		{
			name:    "rfc3339 with zone",
			payload: `{"id":1,"name":"a","due_date":"2024-01-01T09:00:00Z"}`,
			want:    ptr(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		},
		{
			name:    "fractional seconds",
			payload: `{"id":1,"name":"a","due_date":"2024-01-01T09:00:00.000Z"}`,
			want:    ptr(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		},
		{
			name:    "wall clock without zone",
			payload: `{"id":1,"name":"a","due_date":"2024-01-01T09:00"}`,
			want:    ptr(time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)),
		},
		{
			name:    "null",
			payload: `{"id":1,"name":"a","due_date":null}`,
		},
		{
			name:    "missing",
			payload: `{"id":1,"name":"a"}`,
		},
		{
			name:    "empty string",
			payload: `{"id":1,"name":"a","due_date":""}`,
		},
		{
			name:    "garbage",
			payload: `{"id":1,"name":"a","due_date":"tomorrow-ish"}`,
		},
		{
			name:    "wrong type",
			payload: `{"id":1,"name":"a","due_date":42}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task Task
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &task))
			assert.Equal(t, uint(1), task.ID)
			assert.Equal(t, "a", task.Name)
			if tt.want == nil {
				assert.Nil(t, task.DueDate)
				return
			}
			require.NotNil(t, task.DueDate)
			assert.True(t, tt.want.Equal(*task.DueDate), "got %s", task.DueDate)
		})
	}
}

func TestTask_UnmarshalJSON_KeepsOtherFields(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":7,"name":"Gym","description":"legs","category_id":3,"is_completed":true}`), &task)
	require.NoError(t, err)

	assert.Equal(t, uint(7), task.ID)
	assert.Equal(t, "legs", task.Description)
	assert.Equal(t, uint(3), task.CategoryID)
	assert.True(t, task.IsCompleted)
}

func TestParseDueDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)

	got, ok := ParseDueDate("2024-05-02 18:30", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 2, 18, 30, 0, 0, loc), got)

	_, ok = ParseDueDate("   ", loc)
	assert.False(t, ok)
}

func ptr(t time.Time) *time.Time { return &t }
