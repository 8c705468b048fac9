package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/mawshu/movie-tracker/internal/shared"
	tu "github.com/mawshu/movie-tracker/internal/testing"
)

func TestWatchlistManager(t *testing.T) {
	ctx := context.Background()

	t.Run("create trims input", func(t *testing.T) {
		fake := tu.NewFakeCatalog()
		user := fake.AddUser("ann")
		m := NewWatchlistManager(fake, user.ID)

		w, err := m.Create(ctx, "  Friday night ", " scary ones ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Title != "Friday night" || w.Description != "scary ones" {
			t.Errorf("unexpected watchlist %+v", w)
		}
		if w.UserID != user.ID {
			t.Errorf("expected owner %d, got %d", user.ID, w.UserID)
		}
	})

	t.Run("create requires a title", func(t *testing.T) {
		fake := tu.NewFakeCatalog()
		m := NewWatchlistManager(fake, 1)

		if _, err := m.Create(ctx, "   ", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if len(fake.Calls()) != 0 {
			t.Errorf("expected no calls, got %v", fake.Calls())
		}
	})

	t.Run("list get delete", func(t *testing.T) {
		fake := tu.NewFakeCatalog(tu.Movies()...)
		ann := fake.AddUser("ann")
		bob := fake.AddUser("bob")
		first := fake.SeedWatchlist(ann.ID, "First", "603", "348")
		fake.SeedWatchlist(bob.ID, "Not mine")
		second := fake.SeedWatchlist(ann.ID, "Second")
		m := NewWatchlistManager(fake, ann.ID)

		lists, err := m.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lists) != 2 || lists[0].ID != first.ID || lists[1].ID != second.ID {
			t.Fatalf("unexpected lists %+v", lists)
		}

		w, err := m.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(w.Items) != 2 || w.Items[0].Movie.ExternalID != "603" {
			t.Errorf("unexpected items %+v", w.Items)
		}

		if err := m.Delete(ctx, first.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := m.Get(ctx, first.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}
