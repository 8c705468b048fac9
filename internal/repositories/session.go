package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mawshu/movie-tracker/internal/shared"
)

// Session is the user the client currently acts as.
type Session struct {
	UserID    int64
	Username  string
	UpdatedAt time.Time
}

// SessionRepository persists the selected user. There is no authentication: the id is
// sent to the service as-is.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Current returns the selected user, or [shared.ErrNoUserSelected].
func (r *SessionRepository) Current(ctx context.Context) (*Session, error) {
	query := `SELECT user_id, username, updated_at FROM session WHERE id = 1`

	var s Session
	err := r.db.QueryRowContext(ctx, query).Scan(&s.UserID, &s.Username, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNoUserSelected
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &s, nil
}

// Use selects userID, replacing any previous selection.
func (r *SessionRepository) Use(ctx context.Context, userID int64, username string) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id must be positive, got %d", shared.ErrInvalidArgument, userID)
	}

	query := `
		INSERT INTO session (id, user_id, username, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, strings.TrimSpace(username), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear forgets the selected user. Clearing an empty session is not an error.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
