// Package view models the navigation state of the planner front ends as an
// explicit state value driven by a single transition function.
package view

import "taskplanner/internal/today"

// Screen is the screen currently shown.
type Screen int

const (
	Home Screen = iota
	Categories
	Tasks
	NewTask
	EditTask
)

func (s Screen) String() string {
	switch s {
	case Home:
		return "home"
	case Categories:
		return "categories"
	case Tasks:
		return "tasks"
	case NewTask:
		return "new-task"
	case EditTask:
		return "edit-task"
	default:
		return "unknown"
	}
}

// State is the full navigation state. Pages are 1-based, one per today
// section. CategoryID 0 means all categories.
type State struct {
	Screen     Screen
	CategoryID uint
	TaskID     uint
	Expanded   today.Section
	Pages      [today.SectionCount]int
	Counts     [today.SectionCount]int
}

// Initial returns the state shown after login.
func Initial() State {
	return State{
		Screen:   Home,
		Expanded: today.Current,
		Pages:    [today.SectionCount]int{1, 1, 1},
	}
}

// Page returns the current page of the expanded section.
func (s State) Page() int {
	return s.Pages[s.Expanded]
}

// Event is an input to Next.
type Event interface {
	isEvent()
}

type (
	// ShowCategories opens the category list.
	ShowCategories struct{}
	// ShowTasks opens the task list, filtered when CategoryID is non-zero.
	ShowTasks struct{ CategoryID uint }
	// ShowNewTask opens the task form.
	ShowNewTask struct{}
	// Edit opens the task form for an existing task.
	Edit struct{ TaskID uint }
	// Back returns to the home screen.
	Back struct{}
	// Expand switches the expanded today section.
	Expand struct{ Section today.Section }
	// NextPage moves the expanded section one page forward.
	NextPage struct{}
	// PrevPage moves the expanded section one page back.
	PrevPage struct{}
	// Loaded reports bucket sizes after a fetch so pages stay in range.
	Loaded struct{ Counts [today.SectionCount]int }
)

func (ShowCategories) isEvent() {}
func (ShowTasks) isEvent()      {}
func (ShowNewTask) isEvent()    {}
func (Edit) isEvent()           {}
func (Back) isEvent()           {}
func (Expand) isEvent()         {}
func (NextPage) isEvent()       {}
func (PrevPage) isEvent()       {}
func (Loaded) isEvent()         {}

// Next applies ev to s. Events that do not apply to the current screen
// leave the state unchanged.
func Next(s State, ev Event) State {
	switch ev := ev.(type) {
	case ShowCategories:
		s.Screen = Categories
		s.TaskID = 0
	case ShowTasks:
		s.Screen = Tasks
		s.CategoryID = ev.CategoryID
		s.TaskID = 0
	case ShowNewTask:
		s.Screen = NewTask
		s.TaskID = 0
	case Edit:
		if ev.TaskID == 0 {
			return s
		}
		s.Screen = EditTask
		s.TaskID = ev.TaskID
	case Back:
		switch s.Screen {
		case EditTask:
			s.Screen = Tasks
		default:
			s.Screen = Home
			s.CategoryID = 0
		}
		s.TaskID = 0
	case Expand:
		if s.Screen != Home || ev.Section < 0 || int(ev.Section) >= today.SectionCount {
			return s
		}
		s.Expanded = ev.Section
	case NextPage:
		if s.Screen != Home {
			return s
		}
		if s.Pages[s.Expanded] < today.PageCount(s.Counts[s.Expanded], today.PageSize) {
			s.Pages[s.Expanded]++
		}
	case PrevPage:
		if s.Screen != Home {
			return s
		}
		if s.Pages[s.Expanded] > 1 {
			s.Pages[s.Expanded]--
		}
	case Loaded:
		s.Counts = ev.Counts
		for i := range s.Pages {
			last := today.PageCount(s.Counts[i], today.PageSize)
			switch {
			case s.Pages[i] < 1:
				s.Pages[i] = 1
			case s.Pages[i] > last:
				s.Pages[i] = last
			}
		}
	}
	return s
}
