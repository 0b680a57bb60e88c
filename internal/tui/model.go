// Package tui is the terminal front end of the planner.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskplanner/internal/apperr"
	"taskplanner/internal/client"
	"taskplanner/internal/model"
	"taskplanner/internal/today"
	"taskplanner/internal/view"
)

// API is the part of the REST client the UI needs.
type API interface {
	ListTasks(ctx context.Context, categoryID uint) ([]model.Task, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	CreateTask(ctx context.Context, input client.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id uint, patch client.TaskPatch) (*model.Task, error)
	SetCompleted(ctx context.Context, id uint, completed bool) (*model.Task, error)
	DeleteTask(ctx context.Context, id uint) error
}

// DueLayout is the due date format used by the task form.
const DueLayout = "2006-01-02 15:04"

const (
	fieldName = iota
	fieldDescription
	fieldCategory
	fieldDue
	fieldCount
)

type loadedMsg struct {
	tasks      []model.Task
	categories []model.Category
	err        error
}

type mutatedMsg struct {
	status string
	err    error
	// back leaves the form after a successful save.
	back bool
}

// Model holds the UI state. Navigation lives in state; everything else is
// the last fetched data and transient input.
type Model struct {
	api  API
	keys keyMap
	loc  *time.Location
	now  func() time.Time

	state      view.State
	tasks      []model.Task
	categories []model.Category
	buckets    today.Buckets
	cursor     int

	inputs        [fieldCount]textinput.Model
	focus         int
	pendingDelete uint

	loading   bool
	status    string
	statusErr bool
	width     int
}

// New creates the UI over api. loc is the zone of "today".
func New(api API, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	m := Model{
		api:   api,
		keys:  defaultKeyMap(),
		loc:   loc,
		now:   time.Now,
		state: view.Initial(),
	}

	placeholders := [fieldCount]string{"Name", "Description", "Category", "Due (" + DueLayout + ", optional)"}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Width = 40
		m.inputs[i] = in
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := api.ListTasks(ctx, 0)
		if err != nil {
			return loadedMsg{err: err}
		}
		categories, err := api.ListCategories(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{tasks: tasks, categories: categories}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.tasks = msg.tasks
		m.categories = msg.categories
		m.buckets = today.Categorize(m.tasks, m.now().In(m.loc))
		m.state = view.Next(m.state, view.Loaded{Counts: m.buckets.Counts()})
		m.clampCursor()
		return m, nil

	case mutatedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.status, m.statusErr = msg.status, false
		if msg.back {
			m.navigate(view.Back{})
		}
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (key.Matches(msg, m.keys.Quit) && !m.inForm()) {
			return m, tea.Quit
		}
		if m.inForm() {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) inForm() bool {
	return m.state.Screen == view.NewTask || m.state.Screen == view.EditTask
}

// navigate applies ev and resets the cursor when the visible list changes.
func (m *Model) navigate(ev view.Event) {
	before := m.state
	m.state = view.Next(m.state, ev)
	if m.state.Screen != before.Screen || m.state.Expanded != before.Expanded || m.state.Page() != before.Page() || m.state.CategoryID != before.CategoryID {
		m.cursor = 0
	}
	m.pendingDelete = 0
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.status != "" {
		m.status, m.statusErr = "", false
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load()
	case key.Matches(msg, m.keys.Back):
		m.navigate(view.Back{})
		return m, nil
	case key.Matches(msg, m.keys.Categories):
		m.navigate(view.ShowCategories{})
		return m, nil
	case key.Matches(msg, m.keys.AllTasks):
		m.navigate(view.ShowTasks{})
		return m, nil
	case key.Matches(msg, m.keys.New):
		m.navigate(view.ShowNewTask{})
		m.resetForm(nil)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil
	}

	switch m.state.Screen {
	case view.Home:
		return m.updateHome(msg)
	case view.Categories:
		if key.Matches(msg, m.keys.Open) && m.cursor < len(m.categories) {
			m.navigate(view.ShowTasks{CategoryID: m.categories[m.cursor].ID})
		}
	case view.Tasks:
		return m.updateTasks(msg)
	}
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Section):
		m.navigate(view.Expand{Section: (m.state.Expanded + 1) % today.SectionCount})
	case key.Matches(msg, m.keys.Current):
		m.navigate(view.Expand{Section: today.Current})
	case key.Matches(msg, m.keys.Overdue):
		m.navigate(view.Expand{Section: today.Overdue})
	case key.Matches(msg, m.keys.Completed):
		m.navigate(view.Expand{Section: today.Completed})
	case key.Matches(msg, m.keys.NextPage):
		m.navigate(view.NextPage{})
	case key.Matches(msg, m.keys.PrevPage):
		m.navigate(view.PrevPage{})
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			return m, m.setCompleted(task, !task.IsCompleted)
		}
	case key.Matches(msg, m.keys.Open):
		if task, ok := m.selected(); ok {
			m.navigate(view.Edit{TaskID: task.ID})
			m.resetForm(&task)
		}
	}
	return m, nil
}

func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.setCompleted(task, !task.IsCompleted)
	case key.Matches(msg, m.keys.Open):
		m.navigate(view.Edit{TaskID: task.ID})
		m.resetForm(&task)
	case key.Matches(msg, m.keys.Delete):
		if m.pendingDelete != task.ID {
			m.pendingDelete = task.ID
			m.status = "Press d again to delete «" + task.Name + "»"
			return m, nil
		}
		m.pendingDelete = 0
		return m, m.deleteTask(task)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.navigate(view.Back{})
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.focusField((m.focus + 1) % fieldCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		cmd, err := m.submit()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) {
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	m.focus = i
}

// resetForm fills the form from task, or clears it for a new task.
func (m *Model) resetForm(task *model.Task) {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	if task != nil {
		m.inputs[fieldName].SetValue(task.Name)
		m.inputs[fieldDescription].SetValue(task.Description)
		m.inputs[fieldCategory].SetValue(m.categoryName(task.CategoryID))
		if task.DueDate != nil {
			m.inputs[fieldDue].SetValue(task.DueDate.In(m.loc).Format(DueLayout))
		}
		for i := range m.inputs {
			m.inputs[i].CursorEnd()
		}
	}
	m.focusField(fieldName)
}

// submit checks the form and returns the command saving it.
func (m Model) submit() (tea.Cmd, error) {
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	if name == "" {
		return nil, apperr.Validation("name", "Task name is required")
	}
	description := strings.TrimSpace(m.inputs[fieldDescription].Value())
	categoryName := strings.TrimSpace(m.inputs[fieldCategory].Value())
	if categoryName == "" {
		return nil, apperr.Validation("category_id", "Category is required")
	}

	var due *time.Time
	if raw := strings.TrimSpace(m.inputs[fieldDue].Value()); raw != "" {
		t, ok := model.ParseDueDate(raw, m.loc)
		if !ok {
			return nil, apperr.Validation("due_date", "Due date is invalid")
		}
		due = &t
	}

	api := m.api
	categoryID := m.categoryID(categoryName)
	taskID := m.state.TaskID
	editing := m.state.Screen == view.EditTask

	return func() tea.Msg {
		ctx := context.Background()
		if categoryID == 0 {
			cat, err := api.CreateCategory(ctx, categoryName)
			if err != nil {
				return mutatedMsg{err: err}
			}
			categoryID = cat.ID
		}
		if editing {
			_, err := api.UpdateTask(ctx, taskID, client.TaskPatch{
				Name:         &name,
				Description:  &description,
				CategoryID:   &categoryID,
				DueDate:      due,
				ClearDueDate: due == nil,
			})
			return mutatedMsg{status: "Task updated", err: err, back: err == nil}
		}
		_, err := api.CreateTask(ctx, client.TaskInput{Name: name, Description: description, CategoryID: categoryID, DueDate: due})
		return mutatedMsg{status: "Task created", err: err, back: err == nil}
	}, nil
}

func (m Model) setCompleted(task model.Task, completed bool) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		_, err := api.SetCompleted(context.Background(), task.ID, completed)
		status := "Marked «" + task.Name + "» complete"
		if !completed {
			status = "Marked «" + task.Name + "» not complete"
		}
		return mutatedMsg{status: status, err: err}
	}
}

func (m Model) deleteTask(task model.Task) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		err := api.DeleteTask(context.Background(), task.ID)
		return mutatedMsg{status: "Deleted «" + task.Name + "»", err: err}
	}
}

func (m *Model) setError(err error) {
	m.status = apperr.UserMessage(err)
	m.statusErr = true
}

// visibleTasks lists what the task screen shows.
func (m Model) visibleTasks() []model.Task {
	var out []model.Task
	for _, task := range m.tasks {
		if m.state.CategoryID == 0 || task.CategoryID == m.state.CategoryID {
			out = append(out, task)
		}
	}
	today.SortByDue(out)
	return out
}

func (m Model) homePage() today.Page[model.Task] {
	return today.Paginate(m.buckets.Section(m.state.Expanded), m.state.Page(), today.PageSize)
}

func (m Model) listLen() int {
	switch m.state.Screen {
	case view.Home:
		return len(m.homePage().Items)
	case view.Categories:
		return len(m.categories)
	case view.Tasks:
		return len(m.visibleTasks())
	}
	return 0
}

func (m Model) selected() (model.Task, bool) {
	var items []model.Task
	switch m.state.Screen {
	case view.Home:
		items = m.homePage().Items
	case view.Tasks:
		items = m.visibleTasks()
	}
	if m.cursor < 0 || m.cursor >= len(items) {
		return model.Task{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) categoryName(id uint) string {
	for _, cat := range m.categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	return ""
}

func (m Model) categoryID(name string) uint {
	for _, cat := range m.categories {
		if strings.EqualFold(strings.TrimSpace(cat.Name), name) {
			return cat.ID
		}
	}
	return 0
}

// Run starts the program on the terminal.
func Run(api API, loc *time.Location) error {
	_, err := tea.NewProgram(New(api, loc), tea.WithAltScreen()).Run()
	return err
}
