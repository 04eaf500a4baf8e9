package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/sirupsen/logrus"
)

const sessionColumns = `id, user_id, task_id, title, category, start_time, end_time, break_after`

// ReplaceSchedule swaps a user's whole session set for sessions in one
// transaction. Every row is validated first; any invalid row fails the call
// and the previous set stays in place.
func (s *Store) ReplaceSchedule(ctx context.Context, userID int, sessions []types.ScheduledSession) (int, error) {
	if userID <= 0 {
		return 0, &types.ValidationError{Index: -1, Field: "user_id", Reason: "must be positive"}
	}
	for i, sess := range sessions {
		if err := validateSession(i, userID, sess); err != nil {
			return 0, err
		}
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := replaceSessions(ctx, tx, userID, sessions, nil); err != nil {
			return err
		}
		return s.touch(ctx, tx, userID)
	})
	if err != nil {
		return 0, err
	}

	config.Logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"sessions": len(sessions),
	}).Info("Schedule replaced")
	return len(sessions), nil
}

// GetSchedule returns a user's sessions ordered by start time.
func (s *Store) GetSchedule(ctx context.Context, userID int) ([]types.ScheduledSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM scheduled_sessions WHERE user_id = ? ORDER BY start_time ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.ScheduledSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func validateSession(i, userID int, sess types.ScheduledSession) error {
	switch {
	case sess.UserID != 0 && sess.UserID != userID:
		return &types.ValidationError{Index: i, Field: "user_id", Reason: fmt.Sprintf("is %d, expected %d", sess.UserID, userID)}
	case sess.TaskID < 0:
		return &types.ValidationError{Index: i, Field: "task_id", Reason: "must not be negative"}
	case sess.StartTime.IsZero():
		return &types.ValidationError{Index: i, Field: "start_time", Reason: "is required"}
	case sess.EndTime.IsZero():
		return &types.ValidationError{Index: i, Field: "end_time", Reason: "is required"}
	case !sess.EndTime.After(sess.StartTime):
		return &types.ValidationError{Index: i, Field: "end_time", Reason: "must be after start_time"}
	case sess.BreakAfter < 0:
		return &types.ValidationError{Index: i, Field: "break_after", Reason: "must not be negative"}
	}
	return nil
}

// replaceSessions deletes and re-inserts a user's sessions inside tx. When
// taskIDs is non-nil, task ids are remapped through it and unknown ids are
// unlinked.
func replaceSessions(ctx context.Context, tx *sql.Tx, userID int, sessions []types.ScheduledSession, taskIDs map[int]int) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled_sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scheduled_sessions (user_id, task_id, title, category, start_time, end_time, break_after)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare session insert: %w", err)
	}
	defer stmt.Close()

	for _, sess := range sessions {
		taskID := sess.TaskID
		if taskIDs != nil && taskID != 0 {
			taskID = taskIDs[taskID]
		}
		if _, err := stmt.ExecContext(ctx, userID, taskID, sess.Title, sess.Category,
			formatTime(sess.StartTime), formatTime(sess.EndTime), sess.BreakAfter); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}
	return nil
}

func scanSession(row rowScanner) (types.ScheduledSession, error) {
	var (
		sess       types.ScheduledSession
		start, end string
	)
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.TaskID, &sess.Title, &sess.Category,
		&start, &end, &sess.BreakAfter); err != nil {
		return types.ScheduledSession{}, err
	}
	var err error
	if sess.StartTime, err = parseTime(start); err != nil {
		return types.ScheduledSession{}, err
	}
	if sess.EndTime, err = parseTime(end); err != nil {
		return types.ScheduledSession{}, err
	}
	return sess, nil
}
