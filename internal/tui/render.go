package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskplanner/internal/model"
	"taskplanner/internal/today"
	"taskplanner/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	expandedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5A56E0"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3C3C3C"))
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#808080"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
)

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(" Planner "))
	sb.WriteString("\n\n")

	switch m.state.Screen {
	case view.Home:
		sb.WriteString(m.viewHome())
	case view.Categories:
		sb.WriteString(m.viewCategories())
	case view.Tasks:
		sb.WriteString(m.viewTasks())
	case view.NewTask, view.EditTask:
		sb.WriteString(m.viewForm())
	}

	sb.WriteString("\n")
	if m.loading {
		sb.WriteString(mutedStyle.Render("Loading…"))
	} else if m.status != "" {
		if m.statusErr {
			sb.WriteString(errorStyle.Render(m.status))
		} else {
			sb.WriteString(okStyle.Render(m.status))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(m.helpLine()))
	return sb.String()
}

func (m Model) viewHome() string {
	var sb strings.Builder
	now := m.now().In(m.loc)
	sb.WriteString(headingStyle.Render("Today · " + now.Format("Mon, 02 Jan 2006")))
	sb.WriteString("\n")

	counts := m.buckets.Counts()
	for _, section := range today.Sections {
		heading := fmt.Sprintf("%s (%d)", section.Title(), counts[section])
		if section != m.state.Expanded {
			sb.WriteString("\n▸ " + heading + "\n")
			continue
		}
		sb.WriteString("\n" + expandedStyle.Render("▾ "+heading) + "\n")

		page := m.homePage()
		if len(page.Items) == 0 {
			sb.WriteString(mutedStyle.Render("  "+section.EmptyMessage()) + "\n")
			continue
		}
		for i, task := range page.Items {
			sb.WriteString(m.taskRow(task, i == m.cursor, today.TimeLabel(task, m.loc)))
		}
		if page.Pages > 1 {
			sb.WriteString(mutedStyle.Render(fmt.Sprintf("  page %d/%d", page.Number, page.Pages)) + "\n")
		}
	}
	return sb.String()
}

func (m Model) viewCategories() string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render("Categories") + "\n\n")
	if len(m.categories) == 0 {
		sb.WriteString(mutedStyle.Render("  No categories yet. Add a task to create one.") + "\n")
	}
	for i, cat := range m.categories {
		line := "  " + cat.Name
		if i == m.cursor {
			line = selectedStyle.Render("> " + cat.Name)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (m Model) viewTasks() string {
	var sb strings.Builder
	title := "All tasks"
	if m.state.CategoryID != 0 {
		title = "Tasks · " + m.categoryName(m.state.CategoryID)
	}
	sb.WriteString(headingStyle.Render(title) + "\n\n")

	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		sb.WriteString(mutedStyle.Render("  No tasks.") + "\n")
	}
	for i, task := range tasks {
		due := today.NoTimeLabel
		if task.DueDate != nil {
			due = task.DueDate.In(m.loc).Format("Mon 02 Jan 3:04 PM")
		}
		sb.WriteString(m.taskRow(task, i == m.cursor, due))
	}
	return sb.String()
}

func (m Model) taskRow(task model.Task, selected bool, when string) string {
	box := "[ ]"
	if task.IsCompleted {
		box = "[x]"
	}
	name := task.Name
	if task.IsCompleted {
		name = doneStyle.Render(name)
	}
	line := fmt.Sprintf("%s %s  %s", box, name, mutedStyle.Render(when))
	if cat := m.categoryName(task.CategoryID); cat != "" {
		line += mutedStyle.Render("  (" + cat + ")")
	}
	if selected {
		return selectedStyle.Render(">") + " " + line + "\n"
	}
	return "  " + line + "\n"
}

func (m Model) viewForm() string {
	var sb strings.Builder
	title := "New task"
	if m.state.Screen == view.EditTask {
		title = "Edit task"
	}
	sb.WriteString(headingStyle.Render(title) + "\n\n")
	labels := [fieldCount]string{"Name", "Description", "Category", "Due"}
	for i, in := range m.inputs {
		label := fmt.Sprintf("%-12s", labels[i])
		if i == m.focus {
			label = expandedStyle.Render(label)
		}
		sb.WriteString(label + " " + in.View() + "\n")
	}
	return sb.String()
}

func (m Model) helpLine() string {
	switch m.state.Screen {
	case view.Home:
		return "tab/1-3 section • ←/→ page • x complete/undo • enter edit • a add • c categories • t tasks • r refresh • q quit"
	case view.Categories:
		return "enter open • esc back • a add • q quit"
	case view.Tasks:
		return "x complete/undo • enter edit • d delete • esc back • a add • q quit"
	default:
		return "tab next field • enter save • esc cancel"
	}
}
