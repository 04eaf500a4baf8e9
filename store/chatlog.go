package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

// AppendChatExchange adds one entry to the append-only chat log.
func (s *Store) AppendChatExchange(ctx context.Context, ex types.ChatExchange) (types.ChatExchange, error) {
	if ex.UserID <= 0 {
		return types.ChatExchange{}, &types.ValidationError{Index: -1, Field: "user_id", Reason: "must be positive"}
	}
	if ex.Role != types.RoleUser && ex.Role != types.RoleAssistant {
		return types.ChatExchange{}, &types.ValidationError{Index: -1, Field: "role", Reason: fmt.Sprintf("unknown role %q", ex.Role)}
	}
	if strings.TrimSpace(ex.Message) == "" {
		return types.ChatExchange{}, &types.ValidationError{Index: -1, Field: "message", Reason: "is empty"}
	}
	if ex.Timestamp.IsZero() {
		ex.Timestamp = s.clock()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO chat_log (user_id, created_at, role, message) VALUES (?, ?, ?, ?)`,
			ex.UserID, formatTime(ex.Timestamp), string(ex.Role), ex.Message)
		if err != nil {
			return fmt.Errorf("append chat exchange: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("append chat exchange: %w", err)
		}
		ex.ID = int(id)
		return s.touch(ctx, tx, ex.UserID)
	})
	if err != nil {
		return types.ChatExchange{}, err
	}
	return ex, nil
}

// ListChatExchanges returns the latest limit entries in chronological order.
// A non-positive limit returns the whole log.
func (s *Store) ListChatExchanges(ctx context.Context, userID, limit int) ([]types.ChatExchange, error) {
	query := `SELECT id, user_id, created_at, role, message FROM chat_log WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat log: %w", err)
	}
	defer rows.Close()

	var log []types.ChatExchange
	for rows.Next() {
		var (
			ex      types.ChatExchange
			created string
			role    string
		)
		if err := rows.Scan(&ex.ID, &ex.UserID, &created, &role, &ex.Message); err != nil {
			return nil, fmt.Errorf("scan chat exchange: %w", err)
		}
		if ex.Timestamp, err = parseTime(created); err != nil {
			return nil, err
		}
		ex.Role = types.Role(role)
		log = append(log, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat log: %w", err)
	}

	for i, j := 0, len(log)-1; i < j; i, j = i+1, j-1 {
		log[i], log[j] = log[j], log[i]
	}
	return log, nil
}
