package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskplanner/internal/model"
	"taskplanner/internal/today"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true)
)

// dueLayout is the format printed for due dates and suggested for input.
const dueLayout = "2006-01-02 15:04"

func success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, okStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// printTask writes one task line; when is the due column.
func printTask(w io.Writer, task model.Task, when, category string) {
	box := "[ ]"
	name := task.Name
	if task.IsCompleted {
		box = "[x]"
		name = doneStyle.Render(name)
	}
	line := fmt.Sprintf("%s #%-4d %s  %s", box, task.ID, name, mutedStyle.Render(when))
	if category != "" {
		line += mutedStyle.Render("  (" + category + ")")
	}
	fmt.Fprintln(w, line)
	if d := strings.TrimSpace(task.Description); d != "" {
		fmt.Fprintln(w, mutedStyle.Render("         "+d))
	}
}

func fullDue(task model.Task, loc *time.Location) string {
	if task.DueDate == nil {
		return today.NoTimeLabel
	}
	return task.DueDate.In(loc).Format(dueLayout)
}
