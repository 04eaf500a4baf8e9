package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_Defaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, types.Task{UserID: 1, Title: "  Essay  "})
	require.NoError(t, err)

	assert.NotZero(t, task.ID)
	assert.Equal(t, "Essay", task.Title)
	assert.Equal(t, types.DefaultCategory, task.Category)
	assert.Equal(t, types.DefaultDurationMinutes, task.DurationMinutes)
	assert.Equal(t, types.DefaultDueWindow, task.DueDate.Sub(task.CreatedAt))

	got, err := s.GetTask(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.True(t, got.DueDate.Equal(task.DueDate))
	assert.False(t, got.Completed)
}

func TestCreateTask_Validation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := map[string]types.Task{
		"no user":           {Title: "Essay"},
		"no title":          {UserID: 1, Title: "   "},
		"negative duration": {UserID: 1, Title: "Essay", DurationMinutes: -10},
	}
	for name, task := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateTask(ctx, task)
			var verr *types.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestGetTask_ScopedToUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, types.Task{UserID: 1, Title: "Essay"})
	require.NoError(t, err)

	_, err = s.GetTask(ctx, 2, task.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.GetTask(ctx, 1, task.ID+100)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListIncompleteTasks(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	due := time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC)

	late, err := s.CreateTask(ctx, types.Task{UserID: 1, Title: "Late", DueDate: due.Add(48 * time.Hour)})
	require.NoError(t, err)
	soon, err := s.CreateTask(ctx, types.Task{UserID: 1, Title: "Soon", DueDate: due})
	require.NoError(t, err)
	done, err := s.CreateTask(ctx, types.Task{UserID: 1, Title: "Done", DueDate: due})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, types.Task{UserID: 2, Title: "Other user", DueDate: due})
	require.NoError(t, err)

	_, err = s.CompleteTask(ctx, 1, done.ID)
	require.NoError(t, err)

	incomplete, err := s.ListIncompleteTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, incomplete, 2)
	assert.Equal(t, soon.ID, incomplete[0].ID)
	assert.Equal(t, late.ID, incomplete[1].ID)

	all, err := s.ListTasks(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateTask(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, types.Task{UserID: 1, Title: "Essay", Description: "draft"})
	require.NoError(t, err)

	title := "Essay v2"
	minutes := 90
	category := ""
	updated, err := s.UpdateTask(ctx, 1, task.ID, types.TaskUpdate{
		Title:           &title,
		DurationMinutes: &minutes,
		Category:        &category,
	})
	require.NoError(t, err)
	assert.Equal(t, "Essay v2", updated.Title)
	assert.Equal(t, 90, updated.DurationMinutes)
	assert.Equal(t, types.DefaultCategory, updated.Category)
	assert.Equal(t, "draft", updated.Description)

	_, err = s.UpdateTask(ctx, 1, task.ID, types.TaskUpdate{})
	var verr *types.ValidationError
	assert.True(t, errors.As(err, &verr))

	zero := 0
	_, err = s.UpdateTask(ctx, 1, task.ID, types.TaskUpdate{DurationMinutes: &zero})
	assert.True(t, errors.As(err, &verr))

	_, err = s.UpdateTask(ctx, 2, task.ID, types.TaskUpdate{Title: &title})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteTask_UnlinksSessions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, types.Task{UserID: 1, Title: "Essay"})
	require.NoError(t, err)
	_, err = s.ReplaceSchedule(ctx, 1, []types.ScheduledSession{session(task.ID, "Essay", at(9, 0), at(10, 0))})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(ctx, 1, task.ID))
	assert.True(t, errors.Is(s.DeleteTask(ctx, 1, task.ID), ErrNotFound))

	sessions, err := s.GetSchedule(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Zero(t, sessions[0].TaskID)
	assert.Equal(t, "Essay", sessions[0].Title)
}
