// Package today splits a task list into the three sections of the today's
// task view: current, overdue and completed.
package today

import (
	"sort"
	"time"

	"taskplanner/internal/model"
)

// NoTimeLabel is shown for tasks without a due time.
const NoTimeLabel = "No time entered"

// Buckets holds today's tasks, each slice ordered by due time.
type Buckets struct {
	Current   []model.Task
	Overdue   []model.Task
	Completed []model.Task
}

// Section returns the bucket for s.
func (b Buckets) Section(s Section) []model.Task {
	switch s {
	case Overdue:
		return b.Overdue
	case Completed:
		return b.Completed
	default:
		return b.Current
	}
}

// Counts returns the bucket sizes indexed by Section.
func (b Buckets) Counts() [SectionCount]int {
	return [SectionCount]int{len(b.Current), len(b.Overdue), len(b.Completed)}
}

// Categorize selects the tasks due on now's calendar day (in now's location)
// and splits them by completion and due time. Tasks without a due date are
// always kept and count as current until completed.
//
// A task due exactly at now is both current and overdue.
func Categorize(tasks []model.Task, now time.Time) Buckets {
	var todays []model.Task
	for _, task := range tasks {
		if task.DueDate == nil || SameDay(*task.DueDate, now) {
			todays = append(todays, task)
		}
	}
	SortByDue(todays)

	var b Buckets
	for _, task := range todays {
		if task.IsCompleted {
			b.Completed = append(b.Completed, task)
			continue
		}
		if task.DueDate == nil {
			b.Current = append(b.Current, task)
			continue
		}
		if !task.DueDate.Before(now) {
			b.Current = append(b.Current, task)
		}
		if !task.DueDate.After(now) {
			b.Overdue = append(b.Overdue, task)
		}
	}
	return b
}

// SameDay reports whether t falls on ref's calendar day in ref's location.
func SameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SortByDue orders tasks by due time, undated tasks last, ties by ID.
func SortByDue(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case a != nil && b != nil:
			if !a.Equal(*b) {
				return a.Before(*b)
			}
		case a != nil:
			return true
		case b != nil:
			return false
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// TimeLabel renders the due time on a 12-hour clock in loc.
func TimeLabel(task model.Task, loc *time.Location) string {
	if task.DueDate == nil {
		return NoTimeLabel
	}
	if loc == nil {
		loc = time.Local
	}
	return task.DueDate.In(loc).Format("3:04 PM")
}
