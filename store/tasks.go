package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

const taskColumns = `id, user_id, title, description, created_at, due_date, duration_minutes, completed, category`

// CreateTask inserts a task, filling category, duration and due date
// defaults, and returns it with its new id.
func (s *Store) CreateTask(ctx context.Context, task types.Task) (types.Task, error) {
	task = s.withTaskDefaults(task)
	if err := validateTask(task); err != nil {
		return types.Task{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := insertTask(ctx, tx, task)
		if err != nil {
			return err
		}
		task.ID = id
		return s.touch(ctx, tx, task.UserID)
	})
	if err != nil {
		return types.Task{}, err
	}
	return task, nil
}

func (s *Store) GetTask(ctx context.Context, userID, taskID int) (types.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return types.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// ListTasks returns all of a user's tasks ordered by due date.
func (s *Store) ListTasks(ctx context.Context, userID int) ([]types.Task, error) {
	return s.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY due_date ASC, id ASC`, userID)
}

func (s *Store) ListIncompleteTasks(ctx context.Context, userID int) ([]types.Task, error) {
	return s.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? AND completed = 0 ORDER BY due_date ASC, id ASC`, userID)
}

// UpdateTask applies a partial update and returns the stored result.
func (s *Store) UpdateTask(ctx context.Context, userID, taskID int, upd types.TaskUpdate) (types.Task, error) {
	if upd.Empty() {
		return types.Task{}, &types.ValidationError{Index: -1, Field: "update", Reason: "is empty"}
	}

	var updated types.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
		task, err := scanTask(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load task: %w", err)
		}

		applyUpdate(&task, upd)
		if err := validateTask(task); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks
			SET title = ?, description = ?, due_date = ?, duration_minutes = ?, completed = ?, category = ?
			WHERE id = ? AND user_id = ?`,
			task.Title, task.Description, formatTime(task.DueDate), task.DurationMinutes,
			task.Completed, task.Category, taskID, userID)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		updated = task
		return s.touch(ctx, tx, userID)
	})
	if err != nil {
		return types.Task{}, err
	}
	return updated, nil
}

func (s *Store) CompleteTask(ctx context.Context, userID, taskID int) (types.Task, error) {
	done := true
	return s.UpdateTask(ctx, userID, taskID, types.TaskUpdate{Completed: &done})
}

// DeleteTask removes a task. Sessions pointing at it become unlinked but keep
// their title.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE scheduled_sessions SET task_id = 0 WHERE user_id = ? AND task_id = ?`, userID, taskID); err != nil {
			return fmt.Errorf("unlink sessions: %w", err)
		}
		return s.touch(ctx, tx, userID)
	})
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

func (s *Store) withTaskDefaults(task types.Task) types.Task {
	task.Title = strings.TrimSpace(task.Title)
	task.Category = strings.TrimSpace(task.Category)
	if task.Category == "" {
		task.Category = types.DefaultCategory
	}
	if task.DurationMinutes == 0 {
		task.DurationMinutes = types.DefaultDurationMinutes
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = s.clock()
	}
	if task.DueDate.IsZero() {
		task.DueDate = task.CreatedAt.Add(types.DefaultDueWindow)
	}
	return task
}

func validateTask(task types.Task) error {
	switch {
	case task.UserID <= 0:
		return &types.ValidationError{Index: -1, Field: "user_id", Reason: "must be positive"}
	case strings.TrimSpace(task.Title) == "":
		return &types.ValidationError{Index: -1, Field: "title", Reason: "is required"}
	case task.DurationMinutes <= 0:
		return &types.ValidationError{Index: -1, Field: "duration_minutes", Reason: "must be positive"}
	case task.DueDate.IsZero():
		return &types.ValidationError{Index: -1, Field: "due_date", Reason: "is required"}
	}
	return nil
}

func applyUpdate(task *types.Task, upd types.TaskUpdate) {
	if upd.Title != nil {
		task.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.DueDate != nil {
		task.DueDate = *upd.DueDate
	}
	if upd.DurationMinutes != nil {
		task.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}
	if upd.Category != nil {
		task.Category = strings.TrimSpace(*upd.Category)
		if task.Category == "" {
			task.Category = types.DefaultCategory
		}
	}
}

func insertTask(ctx context.Context, tx *sql.Tx, task types.Task) (int, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (user_id, title, description, created_at, due_date, duration_minutes, completed, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.UserID, task.Title, task.Description, formatTime(task.CreatedAt), formatTime(task.DueDate),
		task.DurationMinutes, task.Completed, task.Category)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return int(id), nil
}

func scanTask(row rowScanner) (types.Task, error) {
	var (
		t            types.Task
		created, due string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &created, &due,
		&t.DurationMinutes, &t.Completed, &t.Category); err != nil {
		return types.Task{}, err
	}
	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return types.Task{}, err
	}
	if t.DueDate, err = parseTime(due); err != nil {
		return types.Task{}, err
	}
	return t, nil
}

func scanTaskRows(rows *sql.Rows) ([]types.Task, error) {
	var tasks []types.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}
