package orchestrator

import (
	"testing"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkSessions(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tasks := []types.Task{
		{ID: 3, Title: "Essay"},
		{ID: 4, Title: "Lab Report"},
	}
	inferred := []types.InferredTask{
		{Title: "Something else", TaskID: 4, Start: start, End: start.Add(time.Hour)},
		{Title: "  lab report ", Start: start, End: start.Add(time.Hour)},
		{Title: "Essay", TaskID: 99, Start: start, End: start.Add(time.Hour)},
		{Title: "Groceries", Start: start, End: start.Add(time.Hour), BreakAfter: 10},
	}

	sessions := LinkSessions(7, inferred, tasks)
	require.Len(t, sessions, 4)
	assert.Equal(t, 4, sessions[0].TaskID)
	assert.Equal(t, 4, sessions[1].TaskID)
	assert.Equal(t, 3, sessions[2].TaskID, "unknown ids fall back to the title")
	assert.Equal(t, 0, sessions[3].TaskID)
	assert.Equal(t, "Groceries", sessions[3].Title)
	assert.Equal(t, 10, sessions[3].BreakAfter)
	for _, s := range sessions {
		assert.Equal(t, 7, s.UserID)
	}
}

func TestUnscheduledWarnings(t *testing.T) {
	requested := []types.Task{{ID: 1, Title: "Essay"}, {ID: 2, Title: "Lab"}, {ID: 3, Title: "Reading"}}
	scheduled := []types.InferredTask{{Title: "essay"}, {Title: "Other", TaskID: 2}}

	assert.Equal(t, []string{`Task "Reading" was not scheduled`}, UnscheduledWarnings(requested, scheduled, nil))
	assert.Empty(t, UnscheduledWarnings(requested, scheduled, []string{"No room for READING today"}))
}

func TestBuildScheduleRequest(t *testing.T) {
	due := time.Date(2024, 1, 5, 17, 0, 0, 0, time.FixedZone("EST", -5*3600))
	req := BuildScheduleRequest(2, []types.Task{{ID: 1, Title: "Essay", DueDate: due, DurationMinutes: 50}},
		types.Availability{EnergyLevel: []int{1, 3}, PomodoroLength: 30})

	assert.Equal(t, types.PlannerUserID(2), req.UserID)
	assert.Equal(t, []int{1, 3}, req.EnergyLevel)
	assert.Equal(t, 30, req.PomodoroLength)
	assert.NotNil(t, req.AvailableSlots)
	require.Len(t, req.Tasks, 1)
	assert.Equal(t, "2024-01-05T17:00:00-05:00", req.Tasks[0].DueDate)
	assert.Equal(t, 50, req.Tasks[0].DurationMinutes)
}
