package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(context.Background(), shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("empty session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if _, err := repo.Current(ctx); !errors.Is(err, shared.ErrNoUserSelected) {
			t.Errorf("expected ErrNoUserSelected, got %v", err)
		}
	})

	t.Run("Use and Current", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Use(ctx, 42, " ann "); err != nil {
			t.Fatalf("failed to use user: %v", err)
		}

		s, err := repo.Current(ctx)
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if s.UserID != 42 || s.Username != "ann" {
			t.Errorf("unexpected session %+v", s)
		}
		if s.UpdatedAt.IsZero() {
			t.Error("expected updated_at to be set")
		}
	})

	t.Run("Use replaces the selection", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db)

		repo.Use(ctx, 1, "ann")
		if err := repo.Use(ctx, 2, "bob"); err != nil {
			t.Fatalf("failed to switch user: %v", err)
		}

		s, err := repo.Current(ctx)
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if s.UserID != 2 || s.Username != "bob" {
			t.Errorf("expected bob, got %+v", s)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM session").Scan(&count); err != nil {
			t.Fatalf("failed to count sessions: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single session row, got %d", count)
		}
	})

	t.Run("invalid user id", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Use(ctx, 0, "nobody"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("clearing an empty session failed: %v", err)
		}

		repo.Use(ctx, 7, "carol")
		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("failed to clear session: %v", err)
		}
		if _, err := repo.Current(ctx); !errors.Is(err, shared.ErrNoUserSelected) {
			t.Errorf("expected ErrNoUserSelected after clear, got %v", err)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db)
		db.Close()

		if _, err := repo.Current(ctx); err == nil || errors.Is(err, shared.ErrNoUserSelected) {
			t.Errorf("expected a query error, got %v", err)
		}
		if err := repo.Use(ctx, 1, "ann"); err == nil {
			t.Error("expected an error on a closed database")
		}
	})
}

func TestSearchHistoryRepository(t *testing.T) {
	ctx := context.Background()

	queries := func(searches []RecentSearch) []string {
		out := make([]string, len(searches))
		for i, s := range searches {
			out[i] = s.Query
		}
		return out
	}

	t.Run("newest first", func(t *testing.T) {
		repo := NewSearchHistoryRepository(setupTestDB(t))

		for _, q := range []string{"alien", "matrix", "blade runner"} {
			if err := repo.Record(ctx, models.SearchQuery{Query: q}); err != nil {
				t.Fatalf("failed to record %q: %v", q, err)
			}
		}

		searches, err := repo.Recent(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list searches: %v", err)
		}
		got := fmt.Sprint(queries(searches))
		if got != "[blade runner matrix alien]" {
			t.Errorf("unexpected order %s", got)
		}
	})

	t.Run("repeat moves to top", func(t *testing.T) {
		repo := NewSearchHistoryRepository(setupTestDB(t))

		repo.Record(ctx, models.SearchQuery{Query: "alien"})
		repo.Record(ctx, models.SearchQuery{Query: "matrix"})
		repo.Record(ctx, models.SearchQuery{Query: "  ALIEN "})

		searches, _ := repo.Recent(ctx, 0)
		if got := fmt.Sprint(queries(searches)); got != "[ALIEN matrix]" {
			t.Errorf("unexpected history %s", got)
		}
	})

	t.Run("year distinguishes searches", func(t *testing.T) {
		repo := NewSearchHistoryRepository(setupTestDB(t))

		repo.Record(ctx, models.SearchQuery{Query: "matrix"})
		repo.Record(ctx, models.SearchQuery{Query: "matrix", Year: 2003})

		searches, _ := repo.Recent(ctx, 0)
		if len(searches) != 2 {
			t.Fatalf("expected 2 searches, got %d", len(searches))
		}
		if searches[0].Year != 2003 || searches[1].Year != 0 {
			t.Errorf("unexpected years %d, %d", searches[0].Year, searches[1].Year)
		}

		q := searches[0].SearchQuery()
		if q.Query != "matrix" || q.Year != 2003 || q.Page != 1 {
			t.Errorf("unexpected query %+v", q)
		}
	})

	t.Run("blank query ignored", func(t *testing.T) {
		repo := NewSearchHistoryRepository(setupTestDB(t))

		if err := repo.Record(ctx, models.SearchQuery{Query: "   "}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		searches, _ := repo.Recent(ctx, 0)
		if len(searches) != 0 {
			t.Errorf("expected empty history, got %v", searches)
		}
	})

	t.Run("limit and pruning", func(t *testing.T) {
		repo := NewSearchHistoryRepository(setupTestDB(t))

		for i := range MaxRecentSearches + 5 {
			repo.Record(ctx, models.SearchQuery{Query: fmt.Sprintf("q%d", i)})
		}

		all, err := repo.Recent(ctx, 100)
		if err != nil {
			t.Fatalf("failed to list searches: %v", err)
		}
		if len(all) != MaxRecentSearches {
			t.Errorf("expected %d searches kept, got %d", MaxRecentSearches, len(all))
		}

		top, _ := repo.Recent(ctx, 3)
		if got := fmt.Sprint(queries(top)); got != "[q24 q23 q22]" {
			t.Errorf("unexpected top searches %s", got)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewSearchHistoryRepository(setupTestDB(t))

		repo.Record(ctx, models.SearchQuery{Query: "alien"})
		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		searches, _ := repo.Recent(ctx, 0)
		if len(searches) != 0 {
			t.Errorf("expected empty history, got %v", searches)
		}
	})
}
