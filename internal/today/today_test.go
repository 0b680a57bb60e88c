package today

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskplanner/internal/model"
)

var loc = time.FixedZone("planner", -5*3600)

func at(day, hour, minute int) *time.Time {
	t := time.Date(2024, 1, day, hour, minute, 0, 0, loc)
	return &t
}

func ids(tasks []model.Task) []uint {
	out := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestCategorize_Scenarios(t *testing.T) {
	task := model.Task{ID: 1, Name: "standup", DueDate: at(1, 9, 0)}

	t.Run("due later today is current", func(t *testing.T) {
		b := Categorize([]model.Task{task}, *at(1, 8, 0))
		assert.Equal(t, []uint{1}, ids(b.Current))
		assert.Empty(t, b.Overdue)
		assert.Empty(t, b.Completed)
	})

	t.Run("due earlier today is overdue", func(t *testing.T) {
		b := Categorize([]model.Task{task}, *at(1, 10, 0))
		assert.Empty(t, b.Current)
		assert.Equal(t, []uint{1}, ids(b.Overdue))
		assert.Empty(t, b.Completed)
	})

	t.Run("due exactly now is current and overdue", func(t *testing.T) {
		b := Categorize([]model.Task{task}, *at(1, 9, 0))
		assert.Equal(t, []uint{1}, ids(b.Current))
		assert.Equal(t, []uint{1}, ids(b.Overdue))
	})

	t.Run("no due date is current", func(t *testing.T) {
		undated := model.Task{ID: 2, Name: "read"}
		b := Categorize([]model.Task{undated}, *at(1, 10, 0))
		assert.Equal(t, []uint{2}, ids(b.Current))
		assert.Empty(t, b.Overdue)
		assert.Equal(t, NoTimeLabel, TimeLabel(b.Current[0], loc))
	})

	t.Run("due yesterday is excluded", func(t *testing.T) {
		yesterday := model.Task{ID: 3, DueDate: at(1, 23, 0)}
		b := Categorize([]model.Task{yesterday}, *at(2, 8, 0))
		assert.Empty(t, b.Current)
		assert.Empty(t, b.Overdue)
		assert.Empty(t, b.Completed)
	})
}

func TestCategorize_OtherDaysExcludedFromAllBuckets(t *testing.T) {
	now := *at(15, 12, 0)
	tasks := []model.Task{
		{ID: 1, DueDate: at(14, 12, 0)},
		{ID: 2, DueDate: at(16, 12, 0), IsCompleted: true},
		{ID: 3, DueDate: at(14, 23, 59)},
		{ID: 4, DueDate: at(16, 0, 0)},
		{ID: 5, DueDate: at(15, 0, 0)},
	}

	b := Categorize(tasks, now)
	all := append(append(ids(b.Current), ids(b.Overdue)...), ids(b.Completed)...)
	assert.Equal(t, []uint{5}, all)
}

func TestCategorize_CalendarDayUsesNowLocation(t *testing.T) {
	// 03:00 UTC on the 2nd is still the evening of the 1st at UTC-5.
	due := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	task := model.Task{ID: 1, DueDate: &due}

	b := Categorize([]model.Task{task}, *at(1, 20, 0))
	assert.Equal(t, []uint{1}, ids(b.Current))

	b = Categorize([]model.Task{task}, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))
	assert.Equal(t, []uint{1}, ids(b.Current))
}

func TestCategorize_CompletedRegardlessOfDueTime(t *testing.T) {
	now := *at(1, 12, 0)
	tasks := []model.Task{
		{ID: 1, DueDate: at(1, 7, 0), IsCompleted: true},
		{ID: 2, DueDate: at(1, 18, 0), IsCompleted: true},
		{ID: 3, IsCompleted: true},
		{ID: 4, DueDate: at(1, 12, 0), IsCompleted: true},
	}

	b := Categorize(tasks, now)
	assert.Equal(t, []uint{1, 4, 2, 3}, ids(b.Completed))
	assert.Empty(t, b.Current)
	assert.Empty(t, b.Overdue)
}

func TestCategorize_OrderedByDueTime(t *testing.T) {
	now := *at(1, 12, 0)
	tasks := []model.Task{
		{ID: 1, DueDate: at(1, 18, 0)},
		{ID: 2, DueDate: at(1, 9, 30)},
		{ID: 3},
		{ID: 4, DueDate: at(1, 13, 0)},
		{ID: 5, DueDate: at(1, 8, 0)},
		{ID: 6, DueDate: at(1, 13, 0)},
	}

	b := Categorize(tasks, now)
	assert.Equal(t, []uint{4, 6, 1, 3}, ids(b.Current))
	assert.Equal(t, []uint{5, 2}, ids(b.Overdue))

	for _, bucket := range [][]model.Task{b.Current, b.Overdue} {
		for i := 1; i < len(bucket); i++ {
			prev, cur := bucket[i-1].DueDate, bucket[i].DueDate
			if prev != nil && cur != nil {
				assert.False(t, cur.Before(*prev))
			}
		}
	}
}

func TestCategorize_EmptyAndInputUntouched(t *testing.T) {
	b := Categorize(nil, time.Now())
	assert.Empty(t, b.Current)
	assert.Empty(t, b.Overdue)
	assert.Empty(t, b.Completed)

	tasks := []model.Task{{ID: 2, DueDate: at(1, 18, 0)}, {ID: 1, DueDate: at(1, 9, 0)}}
	Categorize(tasks, *at(1, 12, 0))
	assert.Equal(t, []uint{2, 1}, ids(tasks))
}

func TestBuckets_SectionAndCounts(t *testing.T) {
	b := Buckets{
		Current:   []model.Task{{ID: 1}},
		Overdue:   []model.Task{{ID: 2}, {ID: 3}},
		Completed: nil,
	}
	assert.Equal(t, []uint{2, 3}, ids(b.Section(Overdue)))
	assert.Equal(t, [SectionCount]int{1, 2, 0}, b.Counts())
}

func TestTimeLabel(t *testing.T) {
	tests := []struct {
		due  *time.Time
		want string
	}{
		{at(1, 9, 0), "9:00 AM"},
		{at(1, 0, 5), "12:05 AM"},
		{at(1, 12, 0), "12:00 PM"},
		{at(1, 17, 45), "5:45 PM"},
		{nil, NoTimeLabel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeLabel(model.Task{DueDate: tt.due}, loc))
	}
}

func TestParseSection(t *testing.T) {
	s, ok := ParseSection("incomplete")
	require.True(t, ok)
	assert.Equal(t, Overdue, s)

	_, ok = ParseSection("later")
	assert.False(t, ok)

	assert.Equal(t, "Passed due date", Overdue.Title())
	assert.Equal(t, "No completed tasks for today.", Completed.EmptyMessage())
}
