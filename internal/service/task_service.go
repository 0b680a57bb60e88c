package service

import (
	"context"
	"strings"
	"time"

	"taskplanner/internal/apperr"
	"taskplanner/internal/model"
	"taskplanner/internal/repository"
	"taskplanner/internal/today"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Name        string
	Description string
	CategoryID  uint
	DueDate     *time.Time
	Completed   bool
}

// TaskPatch carries a partial update. Nil fields are left as they are;
// ClearDueDate removes the due date.
type TaskPatch struct {
	Name         *string
	Description  *string
	CategoryID   *uint
	DueDate      *time.Time
	ClearDueDate bool
	IsCompleted  *bool
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name", "Task name is required")
	}
	if err := s.checkCategory(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		DueDate:     input.DueDate,
		IsCompleted: input.Completed,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, storeError("task", "create task", err)
	}
	return &task, nil
}

// ListTasks returns the user's tasks, only those of categoryID when non-zero.
func (s *TaskService) ListTasks(ctx context.Context, userID, categoryID uint) ([]model.Task, error) {
	if categoryID != 0 {
		if _, err := s.categoryRepo.GetByID(ctx, userID, categoryID); err != nil {
			return nil, storeError("category", "find category", err)
		}
	}
	tasks, err := s.taskRepo.List(ctx, userID, categoryID)
	if err != nil {
		return nil, storeError("task", "list tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, storeError("task", "find task", err)
	}
	return task, nil
}

// UpdateTask applies a partial update.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint, patch TaskPatch) (*model.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.Validation("name", "Task name is required")
		}
		task.Name = name
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.CategoryID != nil {
		if err := s.checkCategory(ctx, userID, *patch.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = *patch.CategoryID
	}
	switch {
	case patch.ClearDueDate:
		task.DueDate = nil
	case patch.DueDate != nil:
		task.DueDate = patch.DueDate
	}
	if patch.IsCompleted != nil {
		task.IsCompleted = *patch.IsCompleted
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, storeError("task", "update task", err)
	}
	return task, nil
}

// SetCompleted marks a task done or not done.
func (s *TaskService) SetCompleted(ctx context.Context, userID, taskID uint, completed bool) (*model.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetCompleted(ctx, task, completed); err != nil {
		return nil, storeError("task", "complete task", err)
	}
	task.IsCompleted = completed
	return task, nil
}

// CompleteTask marks a task as done.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	return s.SetCompleted(ctx, userID, taskID, true)
}

// DeleteTask removes a task completely.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint) error {
	return storeError("task", "delete task", s.taskRepo.Delete(ctx, userID, taskID))
}

// Today splits the user's tasks into today's buckets relative to now.
func (s *TaskService) Today(ctx context.Context, userID uint, now time.Time) (today.Buckets, error) {
	tasks, err := s.ListTasks(ctx, userID, 0)
	if err != nil {
		return today.Buckets{}, err
	}
	return today.Categorize(tasks, now), nil
}

func (s *TaskService) checkCategory(ctx context.Context, userID, categoryID uint) error {
	if categoryID == 0 {
		return apperr.Validation("category_id", "Category is required")
	}
	if _, err := s.categoryRepo.GetByID(ctx, userID, categoryID); err != nil {
		return storeError("category", "find category", err)
	}
	return nil
}
