package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DefaultBreakAfter is applied when the planner omits break_after.
const DefaultBreakAfter = 5

type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// PlannerUserID is a user id as the planner carries it: written as a JSON
// string, read from a string or a number. Ids that are not numeric read as 0.
type PlannerUserID int

func (id PlannerUserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(id)))
}

func (id *PlannerUserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(text))
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		*id = 0
		return nil
	}
	*id = PlannerUserID(n)
	return nil
}

type ScheduleRequest struct {
	UserID         PlannerUserID  `json:"user_id"`
	EnergyLevel    []int          `json:"energy_level"`
	PomodoroLength int            `json:"pomodoro_length"`
	AvailableSlots []TimeSlot     `json:"available_slots"`
	Tasks          []TaskSnapshot `json:"tasks"`
}

// Availability is the externally sourced part of a ScheduleRequest.
type Availability struct {
	EnergyLevel    []int
	PomodoroLength int
	Slots          []TimeSlot
}

type SessionData struct {
	Task       TaskSnapshot `json:"task"`
	TaskID     int          `json:"task_id"`
	StartTime  string       `json:"start_time"`
	EndTime    string       `json:"end_time"`
	BreakAfter *int         `json:"break_after,omitempty"`
}

type ScheduleResponse struct {
	UserID         PlannerUserID `json:"user_id"`
	Sessions       []SessionData `json:"sessions"`
	TotalStudyTime int           `json:"total_study_time"`
	TotalBreakTime int           `json:"total_break_time"`
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	Warnings       []string      `json:"warnings"`
}

// InferredTask is one parsed unit of planner output, before materialization.
type InferredTask struct {
	Title      string    `json:"task"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Category   string    `json:"category"`
	BreakAfter int       `json:"break_after"`
	TaskID     int       `json:"task_id,omitempty"`
}

// IsFiller reports whether the entry is a break or rest block rather than work.
func (t InferredTask) IsFiller() bool {
	for _, s := range []string{t.Title, t.Category} {
		lower := strings.ToLower(s)
		if strings.Contains(lower, "break") || strings.Contains(lower, "rest") {
			return true
		}
	}
	return false
}

func (t InferredTask) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

type ScheduledSession struct {
	ID         int       `json:"id,omitempty"`
	UserID     int       `json:"user_id"`
	TaskID     int       `json:"task_id"`
	Title      string    `json:"title,omitempty"`
	Category   string    `json:"category,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	BreakAfter int       `json:"break_after"`
}

func (s ScheduledSession) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

type GetScheduleResponse struct {
	Success      bool               `json:"success"`
	Sessions     []ScheduledSession `json:"sessions"`
	ErrorMessage string             `json:"error,omitempty"`
}
