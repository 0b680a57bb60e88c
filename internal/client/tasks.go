package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taskplanner/internal/model"
)

// TaskInput is the body of a new task.
type TaskInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CategoryID  uint       `json:"category_id"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskPatch is a partial task update. Nil fields are not sent; ClearDueDate
// sends an explicit null due date.
type TaskPatch struct {
	Name         *string
	Description  *string
	CategoryID   *uint
	DueDate      *time.Time
	ClearDueDate bool
	IsCompleted  *bool
}

// MarshalJSON emits only the fields being changed.
func (p TaskPatch) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.CategoryID != nil {
		body["category_id"] = *p.CategoryID
	}
	switch {
	case p.ClearDueDate:
		body["due_date"] = nil
	case p.DueDate != nil:
		body["due_date"] = p.DueDate.Format(time.RFC3339)
	}
	if p.IsCompleted != nil {
		body["is_completed"] = *p.IsCompleted
	}
	return json.Marshal(body)
}

// ListTasks returns all tasks, or only those of categoryID when non-zero.
func (c *Client) ListTasks(ctx context.Context, categoryID uint) ([]model.Task, error) {
	path := "/tasks"
	if categoryID != 0 {
		path = fmt.Sprintf("/categories/%d/tasks", categoryID)
	}
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d", id), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// SetCompleted marks a task done or not done.
func (c *Client) SetCompleted(ctx context.Context, id uint, completed bool) (*model.Task, error) {
	return c.UpdateTask(ctx, id, TaskPatch{IsCompleted: &completed})
}

// MarkCompleted marks a task done.
func (c *Client) MarkCompleted(ctx context.Context, id uint) (*model.Task, error) {
	return c.SetCompleted(ctx, id, true)
}
