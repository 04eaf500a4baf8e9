package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

const dateKeyLayout = "2006-01-02"

func (s *Store) AddNote(ctx context.Context, note types.Note) (types.Note, error) {
	if note.UserID <= 0 {
		return types.Note{}, &types.ValidationError{Index: -1, Field: "user_id", Reason: "must be positive"}
	}
	if _, err := time.Parse(dateKeyLayout, note.DateKey); err != nil {
		return types.Note{}, &types.ValidationError{Index: -1, Field: "date_key", Reason: "must be YYYY-MM-DD"}
	}
	note.Body = strings.TrimSpace(note.Body)
	if note.Body == "" {
		return types.Note{}, &types.ValidationError{Index: -1, Field: "body", Reason: "is empty"}
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = s.clock()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := insertNote(ctx, tx, note)
		if err != nil {
			return err
		}
		note.ID = id
		return s.touch(ctx, tx, note.UserID)
	})
	if err != nil {
		return types.Note{}, err
	}
	return note, nil
}

// ListNotes returns a user's notes for dateKey, or all notes when dateKey is
// empty.
func (s *Store) ListNotes(ctx context.Context, userID int, dateKey string) ([]types.Note, error) {
	query := `SELECT id, user_id, date_key, body, created_at FROM user_notes WHERE user_id = ?`
	args := []any{userID}
	if dateKey != "" {
		query += ` AND date_key = ?`
		args = append(args, dateKey)
	}
	query += ` ORDER BY date_key ASC, created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []types.Note
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
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// DeleteNotes clears the notes of one day and reports how many were removed.
func (s *Store) DeleteNotes(ctx context.Context, userID int, dateKey string) (int, error) {
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM user_notes WHERE user_id = ? AND date_key = ?`, userID, dateKey)
		if err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}
		if removed == 0 {
			return nil
		}
		return s.touch(ctx, tx, userID)
	})
	return int(removed), err
}

func insertNote(ctx context.Context, tx *sql.Tx, note types.Note) (int, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO user_notes (user_id, date_key, body, created_at) VALUES (?, ?, ?, ?)`,
		note.UserID, note.DateKey, note.Body, formatTime(note.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	return int(id), nil
}
