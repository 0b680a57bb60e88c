package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"taskplanner/internal/model"
	"taskplanner/internal/repository"
	"taskplanner/internal/today"
)

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewReminderService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *ReminderService {
	return &ReminderService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

// DailySummary renders today's buckets for the user as Telegram HTML.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	tasks, err := s.taskRepo.List(ctx, user.ID, 0)
	if err != nil {
		return "", storeError("task", "list tasks", err)
	}

	categories, err := s.categoryRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return "", storeError("category", "list categories", err)
	}
	catNames := make(map[uint]string)
	for _, cat := range categories {
		catNames[cat.ID] = cat.Name
	}

	buckets := today.Categorize(tasks, now)

	var builder strings.Builder
	builder.WriteString("📋 <b>Today's tasks</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("Mon, 02 Jan 2006")))

	for _, section := range today.Sections {
		builder.WriteString(fmt.Sprintf("\n%s <b>%s</b>\n", sectionIcon(section), section.Title()))
		list := buckets.Section(section)
		if len(list) == 0 {
			builder.WriteString("— " + section.EmptyMessage() + "\n")
			continue
		}
		for _, task := range list {
			builder.WriteString(formatTask(task, catNames, now.Location()))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func sectionIcon(s today.Section) string {
	switch s {
	case today.Overdue:
		return "⚠️"
	case today.Completed:
		return "✅"
	default:
		return "🔥"
	}
}

func formatTask(task model.Task, catNames map[uint]string, loc *time.Location) string {
	var sb strings.Builder

	title := html.EscapeString(strings.TrimSpace(task.Name))
	if task.IsCompleted {
		title = "<s>" + title + "</s>"
	}
	sb.WriteString(fmt.Sprintf("• %s · %s", today.TimeLabel(task, loc), title))

	if name, ok := catNames[task.CategoryID]; ok {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(trimmed)))
		}
	}

	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(task.Description))))
	}

	sb.WriteByte('\n')
	return sb.String()
}
