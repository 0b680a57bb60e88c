package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Task represents a single item in the planner.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index" json:"-"`
	CategoryID  uint       `gorm:"index" json:"category_id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	DueDate     *time.Time `gorm:"index" json:"due_date"`
	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// dueDateLayouts are tried in order by ParseDueDate.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate reads a due timestamp in any of the accepted layouts.
// Layouts without a zone are interpreted in loc.
func ParseDueDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON decodes a task. A missing or unreadable due_date leaves
// DueDate nil instead of failing the whole document.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var wire struct {
		plain
		DueDate json.RawMessage `json:"due_date"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*t = Task(wire.plain)
	t.DueDate = nil

	raw := bytes.TrimSpace(wire.DueDate)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if due, ok := ParseDueDate(s, time.Local); ok {
		t.DueDate = &due
	}
	return nil
}
