package orchestrator

import (
	"fmt"
	"strings"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

// BuildScheduleRequest projects open tasks and availability into the planner
// request.
func BuildScheduleRequest(userID int, tasks []types.Task, avail types.Availability) types.ScheduleRequest {
	snaps := make([]types.TaskSnapshot, 0, len(tasks))
	for _, t := range tasks {
		snaps = append(snaps, t.Snapshot())
	}
	slots := avail.Slots
	if slots == nil {
		slots = []types.TimeSlot{}
	}
	return types.ScheduleRequest{
		UserID:         types.PlannerUserID(userID),
		EnergyLevel:    avail.EnergyLevel,
		PomodoroLength: avail.PomodoroLength,
		AvailableSlots: slots,
		Tasks:          snaps,
	}
}

func titleKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LinkSessions turns actionable planner entries into sessions. An entry is
// linked by the task id the planner echoed back, or else by title; entries
// matching neither stay ad hoc.
func LinkSessions(userID int, inferred []types.InferredTask, tasks []types.Task) []types.ScheduledSession {
	byID := make(map[int]types.Task, len(tasks))
	byTitle := make(map[string]types.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		if _, dup := byTitle[titleKey(t.Title)]; !dup {
			byTitle[titleKey(t.Title)] = t
		}
	}

	sessions := make([]types.ScheduledSession, 0, len(inferred))
	for _, it := range inferred {
		sess := types.ScheduledSession{
			UserID:     userID,
			Title:      it.Title,
			Category:   it.Category,
			StartTime:  it.Start,
			EndTime:    it.End,
			BreakAfter: it.BreakAfter,
		}
		if t, ok := byID[it.TaskID]; ok && it.TaskID != 0 {
			sess.TaskID = t.ID
		} else if t, ok := byTitle[titleKey(it.Title)]; ok {
			sess.TaskID = t.ID
		}
		sessions = append(sessions, sess)
	}
	return sessions
}

// UnscheduledWarnings names requested tasks that received no session, unless
// the planner already warned about them.
func UnscheduledWarnings(requested []types.Task, scheduled []types.InferredTask, planner []string) []string {
	got := make(map[string]bool, len(scheduled))
	ids := make(map[int]bool, len(scheduled))
	for _, s := range scheduled {
		got[titleKey(s.Title)] = true
		if s.TaskID != 0 {
			ids[s.TaskID] = true
		}
	}

	var out []string
	for _, t := range requested {
		if ids[t.ID] || got[titleKey(t.Title)] {
			continue
		}
		if mentioned(planner, t.Title) {
			continue
		}
		out = append(out, fmt.Sprintf("Task %q was not scheduled", t.Title))
	}
	return out
}

func mentioned(warnings []string, title string) bool {
	key := titleKey(title)
	for _, w := range warnings {
		if strings.Contains(strings.ToLower(w), key) {
			return true
		}
	}
	return false
}
