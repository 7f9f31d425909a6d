package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Result kinds stored in history.
const (
	KindMood      = "mood"
	KindSchedule  = "schedule"
	KindNutrition = "nutrition"
)

// Entry is one stored remote result.
type Entry struct {
	ID        int64
	UserID    string
	Kind      string
	Data      []byte
	CreatedAt time.Time
}

// Repository persists every mood analysis, schedule result and nutrition
// plan the client receives, so past results can be listed and re-used.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new history repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores a result as raw JSON.
func (r *Repository) Save(ctx context.Context, userID, kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO history (user_id, kind, data, created_at) VALUES (?, ?, ?, ?)`,
		userID, kind, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s history entry: %w", kind, err)
	}
	return nil
}

// ListRecent retrieves the N most recent entries for a user, newest first.
// An empty kind matches all kinds.
func (r *Repository) ListRecent(ctx context.Context, userID, kind string, limit int) ([]Entry, error) {
	query := `SELECT id, user_id, kind, data, created_at FROM history WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var data string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &data, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Data = []byte(data)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Latest retrieves the most recent entry of a kind for a user. Returns nil
// when the user has no entry of that kind.
func (r *Repository) Latest(ctx context.Context, userID, kind string) (*Entry, error) {
	entries, err := r.ListRecent(ctx, userID, kind, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// LatestInto unmarshals the most recent entry of a kind into out. ok is
// false when no entry exists.
func (r *Repository) LatestInto(ctx context.Context, userID, kind string, out any) (bool, error) {
	entry, err := r.Latest(ctx, userID, kind)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}
	if err := json.Unmarshal(entry.Data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s history entry: %w", kind, err)
	}
	return true, nil
}
