package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskplanner/internal/apperr"
	"taskplanner/internal/client"
	"taskplanner/internal/model"
	"taskplanner/internal/today"
)

func (a *App) tasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and change tasks",
	}
	cmd.AddCommand(
		a.tasksListCommand(),
		a.tasksAddCommand(),
		a.tasksEditCommand(),
		a.tasksCompleteCommand("done", "Mark a task complete", true),
		a.tasksCompleteCommand("undo", "Mark a task not complete", false),
		a.tasksRemoveCommand(),
	)
	return cmd
}

func (a *App) tasksListCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, optionally of one category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authed()
			if err != nil {
				return err
			}
			categories, err := c.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			var categoryID uint
			if category != "" {
				cat, err := findCategory(categories, category)
				if err != nil {
					return err
				}
				categoryID = cat.ID
			}
			tasks, err := c.ListTasks(cmd.Context(), categoryID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(w, mutedStyle.Render("No tasks."))
				return nil
			}
			today.SortByDue(tasks)
			names := categoryNames(categories)
			for _, task := range tasks {
				printTask(w, task, fullDue(task, a.loc), names[task.CategoryID])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	return cmd
}

func (a *App) tasksAddCommand() *cobra.Command {
	var name, description, category, due string
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				name = args[0]
			}
			if strings.TrimSpace(name) == "" {
				return apperr.Validation("name", "Task name is required")
			}
			if strings.TrimSpace(category) == "" {
				return apperr.Validation("category_id", "Category is required")
			}
			dueDate, err := a.parseDue(due)
			if err != nil {
				return err
			}

			c, err := a.authed()
			if err != nil {
				return err
			}
			categoryID, err := resolveCategory(cmd.Context(), c, category)
			if err != nil {
				return err
			}
			task, err := c.CreateTask(cmd.Context(), client.TaskInput{
				Name:        name,
				Description: description,
				CategoryID:  categoryID,
				DueDate:     dueDate,
			})
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Added task #%d %s (due %s)", task.ID, task.Name, fullDue(*task, a.loc))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "task name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name (required)")
	cmd.Flags().StringVar(&due, "due", "", "due date, e.g. \""+dueLayout+"\"")
	return cmd
}

func (a *App) tasksEditCommand() *cobra.Command {
	var name, description, category, due string
	var noDue bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			c, err := a.authed()
			if err != nil {
				return err
			}

			var patch client.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				if strings.TrimSpace(name) == "" {
					return apperr.Validation("name", "Task name is required")
				}
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("category") {
				categoryID, err := resolveCategory(cmd.Context(), c, category)
				if err != nil {
					return err
				}
				patch.CategoryID = &categoryID
			}
			switch {
			case noDue:
				patch.ClearDueDate = true
			case flags.Changed("due"):
				dueDate, err := a.parseDue(due)
				if err != nil {
					return err
				}
				patch.DueDate = dueDate
				patch.ClearDueDate = dueDate == nil
			}

			task, err := c.UpdateTask(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Updated task #%d %s (due %s)", task.ID, task.Name, fullDue(*task, a.loc))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category id or name")
	cmd.Flags().StringVar(&due, "due", "", "new due date, e.g. \""+dueLayout+"\"")
	cmd.Flags().BoolVar(&noDue, "no-due", false, "remove the due date")
	return cmd
}

func (a *App) tasksCompleteCommand(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			c, err := a.authed()
			if err != nil {
				return err
			}
			task, err := c.SetCompleted(cmd.Context(), id, completed)
			if err != nil {
				return err
			}
			if completed {
				success(cmd.OutOrStdout(), "Completed #%d %s", task.ID, task.Name)
			} else {
				success(cmd.OutOrStdout(), "Reopened #%d %s", task.ID, task.Name)
			}
			return nil
		},
	}
}

func (a *App) tasksRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			c, err := a.authed()
			if err != nil {
				return err
			}
			if err := c.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted task #%d", id)
			return nil
		},
	}
}

// parseDue reads a due date flag; empty means none.
func (a *App) parseDue(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, ok := model.ParseDueDate(raw, a.loc)
	if !ok {
		return nil, apperr.Validation("due_date", "Due date is invalid")
	}
	return &t, nil
}

func parseTaskID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, usageError("invalid task id %q", raw)
	}
	return uint(id), nil
}

// resolveCategory accepts a category id or a name.
func resolveCategory(ctx context.Context, c *client.Client, raw string) (uint, error) {
	categories, err := c.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	cat, err := findCategory(categories, raw)
	if err != nil {
		return 0, err
	}
	return cat.ID, nil
}

func findCategory(categories []model.Category, raw string) (*model.Category, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
		for i := range categories {
			if categories[i].ID == uint(id) {
				return &categories[i], nil
			}
		}
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, raw) {
			return &categories[i], nil
		}
	}
	return nil, apperr.NotFound("category")
}

func categoryNames(categories []model.Category) map[uint]string {
	names := make(map[uint]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names
}
