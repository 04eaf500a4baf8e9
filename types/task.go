package types

import (
	"strings"
	"time"
)

const (
	DefaultCategory        = "General"
	DefaultDurationMinutes = 25
	DefaultDueWindow       = 7 * 24 * time.Hour
)

type Task struct {
	ID              int       `json:"id,omitempty"`
	UserID          int       `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	DueDate         time.Time `json:"due_date"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
	Category        string    `json:"category"`
}

// TaskUpdate carries a partial edit; nil fields are left untouched.
type TaskUpdate struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Completed       *bool      `json:"completed,omitempty"`
	Category        *string    `json:"category,omitempty"`
}

func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil &&
		u.DurationMinutes == nil && u.Completed == nil && u.Category == nil
}

// TaskSnapshot is the request-shape projection of a Task sent to the planner.
type TaskSnapshot struct {
	Title           string `json:"title"`
	DueDate         string `json:"due_date"`
	DurationMinutes int    `json:"duration_minutes"`
	Category        string `json:"category"`
}

func (t Task) Snapshot() TaskSnapshot {
	category := strings.TrimSpace(t.Category)
	if category == "" {
		category = DefaultCategory
	}
	return TaskSnapshot{
		Title:           t.Title,
		DueDate:         t.DueDate.Format(time.RFC3339),
		DurationMinutes: t.DurationMinutes,
		Category:        category,
	}
}

type TaskResponse struct {
	Success      bool   `json:"success"`
	Task         Task   `json:"task,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

type DeleteTaskResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
}

type GetTasksResponse struct {
	Success      bool   `json:"success"`
	Tasks        []Task `json:"tasks"`
	Total        int    `json:"total"`
	ErrorMessage string `json:"error,omitempty"`
}

type Note struct {
	ID        int       `json:"id,omitempty"`
	UserID    int       `json:"user_id"`
	DateKey   string    `json:"date_key"` // YYYY-MM-DD
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type NotesResponse struct {
	Success      bool   `json:"success"`
	Notes        []Note `json:"notes"`
	ErrorMessage string `json:"error,omitempty"`
}
