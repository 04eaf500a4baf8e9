package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

// LocalModifiedAt returns the modification stamp of a user's data; ok is
// false when the user has never written anything.
func (s *Store) LocalModifiedAt(ctx context.Context, userID int) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT modified_at FROM sync_state WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read sync state: %w", err)
	}
	t, err := parseTime(raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// MarkSynced moves the user's stamp from expected to remote, so the next
// comparison with the backup sees equal times. It reports false, and leaves
// the stamp alone, when the user wrote something after expected was read.
func (s *Store) MarkSynced(ctx context.Context, userID int, expected, remote time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sync_state SET modified_at = ? WHERE user_id = ? AND modified_at = ?`,
		formatTime(remote), userID, formatTime(expected))
	if err != nil {
		return false, fmt.Errorf("mark synced: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark synced: %w", err)
	}
	return n == 1, nil
}

// ExportUser reads a consistent snapshot of everything the user owns.
func (s *Store) ExportUser(ctx context.Context, userID int) (*types.Snapshot, error) {
	snap := &types.Snapshot{Version: types.SnapshotVersion, UserID: userID}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx, `SELECT modified_at FROM sync_state WHERE user_id = ?`, userID).Scan(&raw)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("read sync state: %w", err)
		default:
			if snap.ModifiedAt, err = parseTime(raw); err != nil {
				return err
			}
		}

		if snap.Tasks, err = exportTasks(ctx, tx, userID); err != nil {
			return err
		}
		if snap.Sessions, err = exportSessions(ctx, tx, userID); err != nil {
			return err
		}
		if snap.Notes, err = exportNotes(ctx, tx, userID); err != nil {
			return err
		}
		snap.Chat, err = exportChat(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("export user %d: %w", userID, err)
	}
	return snap, nil
}

// ImportUser replaces the user's tasks, sessions and notes with the
// snapshot's and merges its chat log, all in one transaction. Task ids are
// reassigned locally and sessions are relinked to the new ids. The user's
// stamp becomes the snapshot's.
func (s *Store) ImportUser(ctx context.Context, snap *types.Snapshot) error {
	if snap == nil || snap.UserID <= 0 {
		return &types.ValidationError{Index: -1, Field: "snapshot", Reason: "has no user"}
	}
	if snap.Version > types.SnapshotVersion {
		return &types.ValidationError{Index: -1, Field: "snapshot", Reason: fmt.Sprintf("version %d is not supported", snap.Version)}
	}
	userID := snap.UserID
	for i, sess := range snap.Sessions {
		if err := validateSession(i, userID, sess); err != nil {
			return err
		}
	}
	modified := snap.ModifiedAt
	if modified.IsZero() {
		modified = s.clock()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		taskIDs := make(map[int]int, len(snap.Tasks))
		for _, task := range snap.Tasks {
			task.UserID = userID
			task = s.withTaskDefaults(task)
			if err := validateTask(task); err != nil {
				return err
			}
			id, err := insertTask(ctx, tx, task)
			if err != nil {
				return err
			}
			taskIDs[task.ID] = id
		}

		if err := replaceSessions(ctx, tx, userID, snap.Sessions, taskIDs); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_notes WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clear notes: %w", err)
		}
		for _, note := range snap.Notes {
			note.UserID = userID
			if _, err := insertNote(ctx, tx, note); err != nil {
				return err
			}
		}

		for _, ex := range snap.Chat {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO chat_log (user_id, created_at, role, message) VALUES (?, ?, ?, ?)`,
				userID, formatTime(ex.Timestamp), string(ex.Role), ex.Message); err != nil {
				return fmt.Errorf("merge chat log: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO sync_state (user_id, modified_at) VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET modified_at = excluded.modified_at`,
			userID, formatTime(modified))
		if err != nil {
			return fmt.Errorf("write sync state: %w", err)
		}
		return nil
	})
}

func exportTasks(ctx context.Context, tx *sql.Tx, userID int) ([]types.Task, error) {
	rows, err := tx.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

func exportSessions(ctx context.Context, tx *sql.Tx, userID int) ([]types.ScheduledSession, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM scheduled_sessions WHERE user_id = ? ORDER BY start_time, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []types.ScheduledSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func exportNotes(ctx context.Context, tx *sql.Tx, userID int) ([]types.Note, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, user_id, date_key, body, created_at FROM user_notes WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var out []types.Note
	for rows.Next() {
		var (
			n       types.Note
			created string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.DateKey, &n.Body, &created); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if n.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func exportChat(ctx context.Context, tx *sql.Tx, userID int) ([]types.ChatExchange, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, user_id, created_at, role, message FROM chat_log WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query chat log: %w", err)
	}
	defer rows.Close()

	var out []types.ChatExchange
	for rows.Next() {
		var (
			ex            types.ChatExchange
			created, role string
		)
		if err := rows.Scan(&ex.ID, &ex.UserID, &created, &role, &ex.Message); err != nil {
			return nil, fmt.Errorf("scan chat exchange: %w", err)
		}
		if ex.Timestamp, err = parseTime(created); err != nil {
			return nil, err
		}
		ex.Role = types.Role(role)
		out = append(out, ex)
	}
	return out, rows.Err()
}
