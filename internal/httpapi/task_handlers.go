package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"taskplanner/internal/apperr"
	"taskplanner/internal/model"
	"taskplanner/internal/service"
	"taskplanner/internal/today"
)

type taskRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	CategoryID  *uint           `json:"category_id"`
	DueDate     json.RawMessage `json:"due_date"`
	IsCompleted *bool           `json:"is_completed"`
}

type todayResponse struct {
	Date      string       `json:"date"`
	Current   []model.Task `json:"current"`
	Overdue   []model.Task `json:"overdue"`
	Completed []model.Task `json:"completed"`
}

// dueDate reports the requested due date: set reports whether the field was
// present at all, a nil result with set means clear.
func (s *Server) dueDate(raw json.RawMessage) (due *time.Time, set bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(raw, []byte("null")) {
		return nil, true, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil, true, apperr.Validation("due_date", "Due date is invalid")
	}
	if str == "" {
		return nil, true, nil
	}
	t, ok := model.ParseDueDate(str, s.loc)
	if !ok {
		return nil, true, apperr.Validation("due_date", "Due date is invalid")
	}
	return &t, true, nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, 0)
}

func (s *Server) handleListCategoryTasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, apperr.NotFound("category"))
		return
	}
	s.listTasks(w, r, id)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request, categoryID uint) {
	tasks, err := s.tasks.ListTasks(r.Context(), currentUserID(r), categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, apperr.NotFound("task"))
		return
	}
	task, err := s.tasks.GetTask(r.Context(), currentUserID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	due, _, err := s.dueDate(req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	input := service.TaskInput{DueDate: due}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.CategoryID != nil {
		input.CategoryID = *req.CategoryID
	}
	if req.IsCompleted != nil {
		input.Completed = *req.IsCompleted
	}

	task, err := s.tasks.CreateTask(r.Context(), currentUserID(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, apperr.NotFound("task"))
		return
	}
	var req taskRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	due, dueSet, err := s.dueDate(req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}

	patch := service.TaskPatch{
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		DueDate:      due,
		ClearDueDate: dueSet && due == nil,
		IsCompleted:  req.IsCompleted,
	}
	task, err := s.tasks.UpdateTask(r.Context(), currentUserID(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, apperr.NotFound("task"))
		return
	}
	if err := s.tasks.DeleteTask(r.Context(), currentUserID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	now := s.now().In(s.loc)
	buckets, err := s.tasks.Today(r.Context(), currentUserID(r), now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todayResponse{
		Date:      now.Format("2006-01-02"),
		Current:   nonNil(buckets.Section(today.Current)),
		Overdue:   nonNil(buckets.Section(today.Overdue)),
		Completed: nonNil(buckets.Section(today.Completed)),
	})
}

func nonNil(tasks []model.Task) []model.Task {
	if tasks == nil {
		return []model.Task{}
	}
	return tasks
}
