package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mawshu/movie-tracker/internal/models"
)

// MaxRecentSearches is how many searches [SearchHistoryRepository] keeps.
const MaxRecentSearches = 20

// RecentSearch is one remembered catalog query.
type RecentSearch struct {
	ID         int64
	Query      string
	Year       int // Zero when the search had no year filter
	SearchedAt time.Time
}

// SearchQuery converts r back into a first-page query.
func (r RecentSearch) SearchQuery() models.SearchQuery {
	return models.SearchQuery{Query: r.Query, Year: r.Year, Page: 1}
}

// SearchHistoryRepository stores recent catalog searches.
type SearchHistoryRepository struct {
	db  *sql.DB
	max int
}

// NewSearchHistoryRepository creates a new [SearchHistoryRepository] keeping [MaxRecentSearches] entries
func NewSearchHistoryRepository(db *sql.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db, max: MaxRecentSearches}
}

// Record remembers q as the newest search.
//
// A repeat of an earlier (query, year) pair, compared case-insensitively, moves it to the top
// instead of adding a duplicate. The oldest searches beyond the limit are dropped.
func (r *SearchHistoryRepository) Record(ctx context.Context, q models.SearchQuery) error {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return nil
	}

	var year sql.NullInt64
	if q.Year > 0 {
		year = sql.NullInt64{Int64: int64(q.Year), Valid: true}
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM recent_searches WHERE lower(query) = lower(?) AND coalesce(year, 0) = ?`,
			query, year.Int64)
		if err != nil {
			return fmt.Errorf("failed to remove previous search: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO recent_searches (query, year, searched_at) VALUES (?, ?, ?)`,
			query, year, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to insert search: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM recent_searches
			WHERE id NOT IN (SELECT id FROM recent_searches ORDER BY id DESC LIMIT ?)
		`, r.max)
		if err != nil {
			return fmt.Errorf("failed to prune search history: %w", err)
		}
		return nil
	})
}

// Recent returns up to limit searches, newest first. A non-positive limit returns all of them.
func (r *SearchHistoryRepository) Recent(ctx context.Context, limit int) ([]RecentSearch, error) {
	if limit <= 0 {
		limit = r.max
	}

	query := `
		SELECT id, query, year, searched_at
		FROM recent_searches
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var searches []RecentSearch
	for rows.Next() {
		var (
			s    RecentSearch
			year sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Query, &year, &s.SearchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		if year.Valid {
			s.Year = int(year.Int64)
		}
		searches = append(searches, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return searches, nil
}

// Clear deletes the whole history.
func (r *SearchHistoryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recent_searches`); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}
