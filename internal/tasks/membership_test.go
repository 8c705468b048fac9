package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
	tu "github.com/mawshu/movie-tracker/internal/testing"
)

func TestMembershipCoordinator_AddToWatchlists(t *testing.T) {
	ctx := context.Background()

	setup := func() (*tu.FakeCatalog, *MembershipCoordinator, int64) {
		fake := tu.NewFakeCatalog(tu.Movies()...)
		user := fake.AddUser("ann")
		return fake, NewMembershipCoordinator(fake), user.ID
	}

	t.Run("conflict does not abort later targets", func(t *testing.T) {
		fake, coord, userID := setup()
		a := fake.SeedWatchlist(userID, "A")
		b := fake.SeedWatchlist(userID, "B", "603")
		c := fake.SeedWatchlist(userID, "C")

		result, err := coord.AddToWatchlists(ctx, "603", []int64{a.ID, b.ID, c.ID}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Added != 2 || result.AlreadyPresent != 1 {
			t.Errorf("expected 2 added and 1 already present, got %d/%d", result.Added, result.AlreadyPresent)
		}
		if !result.Mixed() || result.AllAdded() || result.AllAlreadyPresent() {
			t.Error("expected a mixed result")
		}

		calls := fake.CallsTo("AddWatchlistItem")
		if len(calls) != 3 {
			t.Fatalf("expected 3 add requests, got %d", len(calls))
		}
		for i, id := range []int64{a.ID, b.ID, c.ID} {
			if calls[i].Args[0] != id {
				t.Errorf("call %d: expected watchlist %d, got %v", i, id, calls[i].Args[0])
			}
		}

		want := []Outcome{OutcomeAdded, OutcomeAlreadyPresent, OutcomeAdded}
		for i, tr := range result.Targets {
			if tr.Outcome != want[i] {
				t.Errorf("target %d: expected %s, got %s", i, want[i], tr.Outcome)
			}
		}
		if result.Targets[0].Item == nil || result.Targets[0].Item.Movie.ExternalID != "603" {
			t.Error("expected added item to be returned")
		}
	})

	t.Run("generic failure aborts without counts", func(t *testing.T) {
		fake, coord, userID := setup()
		a := fake.SeedWatchlist(userID, "A")
		b := fake.SeedWatchlist(userID, "B")
		c := fake.SeedWatchlist(userID, "C")

		fake.FailWhen("AddWatchlistItem", func(args []any) error {
			if args[0] == b.ID {
				return tu.ServerError("database unavailable")
			}
			return nil
		})

		result, err := coord.AddToWatchlists(ctx, "603", []int64{a.ID, b.ID, c.ID}, nil)
		if result != nil {
			t.Errorf("expected no result on failure, got %+v", result)
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}

		var merr *MembershipError
		if !errors.As(err, &merr) {
			t.Fatalf("expected MembershipError, got %T", err)
		}
		if merr.WatchlistID != b.ID || len(merr.Completed) != 1 {
			t.Errorf("unexpected error detail %+v", merr)
		}

		if len(fake.CallsTo("AddWatchlistItem")) != 2 {
			t.Errorf("expected C not to be attempted, got %v", fake.CallsTo("AddWatchlistItem"))
		}

		got, _ := fake.GetWatchlist(ctx, a.ID)
		if len(got.Items) != 1 {
			t.Error("the completed add to A should remain applied")
		}
	})

	t.Run("empty selection makes no calls", func(t *testing.T) {
		fake, coord, _ := setup()

		result, err := coord.AddToWatchlists(ctx, "603", nil, nil)
		if !errors.Is(err, shared.ErrEmptySelection) || result != nil {
			t.Errorf("expected ErrEmptySelection, got %v, %v", result, err)
		}
		if len(fake.Calls()) != 0 {
			t.Errorf("expected no calls, got %v", fake.Calls())
		}
	})

	t.Run("all already present", func(t *testing.T) {
		fake, coord, userID := setup()
		a := fake.SeedWatchlist(userID, "A", "603")
		b := fake.SeedWatchlist(userID, "B", "603")

		result, err := coord.AddToWatchlists(ctx, "603", []int64{a.ID, b.ID}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.AllAlreadyPresent() || result.Added != 0 || result.AlreadyPresent != 2 {
			t.Errorf("unexpected result %+v", result)
		}
		if result.Summary() != "already in 2 watchlist(s)" {
			t.Errorf("unexpected summary %q", result.Summary())
		}
	})

	t.Run("duplicate targets are requested once", func(t *testing.T) {
		fake, coord, userID := setup()
		a := fake.SeedWatchlist(userID, "A")
		b := fake.SeedWatchlist(userID, "B")

		result, err := coord.AddToWatchlists(ctx, "603", []int64{a.ID, b.ID, a.ID}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.AllAdded() || result.Added != 2 {
			t.Errorf("unexpected result %+v", result)
		}
		if len(fake.CallsTo("AddWatchlistItem")) != 2 {
			t.Errorf("expected 2 requests, got %d", len(fake.CallsTo("AddWatchlistItem")))
		}
		if result.Summary() != "added to 2 watchlist(s)" {
			t.Errorf("unexpected summary %q", result.Summary())
		}
	})

	t.Run("progress updates", func(t *testing.T) {
		fake, coord, userID := setup()
		a := fake.SeedWatchlist(userID, "A")
		b := fake.SeedWatchlist(userID, "B", "603")

		progress := make(chan ProgressUpdate, 4)
		if _, err := coord.AddToWatchlists(ctx, "603", []int64{a.ID, b.ID}, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		var updates []ProgressUpdate
		for u := range progress {
			updates = append(updates, u)
		}
		if len(updates) != 2 {
			t.Fatalf("expected 2 updates, got %d", len(updates))
		}
		if updates[1].Phase != AddToWatchlist || updates[1].Step != 2 || updates[1].Total != 2 {
			t.Errorf("unexpected update %+v", updates[1])
		}
	})

	t.Run("unbuffered progress never blocks", func(t *testing.T) {
		fake, coord, userID := setup()
		a := fake.SeedWatchlist(userID, "A")

		progress := make(chan ProgressUpdate)
		if _, err := coord.AddToWatchlists(ctx, "603", []int64{a.ID}, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestMembershipCoordinator_AddToWatchlist(t *testing.T) {
	ctx := context.Background()
	fake := tu.NewFakeCatalog(tu.Movies()...)
	user := fake.AddUser("ann")
	w := fake.SeedWatchlist(user.ID, "A", "348")
	coord := NewMembershipCoordinator(fake)

	tr, err := coord.AddToWatchlist(ctx, w.ID, "348")
	if err != nil || tr.Outcome != OutcomeAlreadyPresent {
		t.Errorf("expected already present, got %+v, %v", tr, err)
	}

	tr, err = coord.AddToWatchlist(ctx, w.ID, "603")
	if err != nil || tr.Outcome != OutcomeAdded || tr.Item.Position != 2 {
		t.Errorf("expected added at position 2, got %+v, %v", tr, err)
	}

	tr, err = coord.AddToWatchlist(ctx, 9999, "603")
	if !errors.Is(err, shared.ErrNotFound) || tr.Outcome != OutcomeFailed {
		t.Errorf("expected not found failure, got %+v, %v", tr, err)
	}

	if err := coord.RemoveFromWatchlist(ctx, w.ID, tr.WatchlistID); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("removing an unknown item should fail, got %v", err)
	}

	got, _ := fake.GetWatchlist(ctx, w.ID)
	if err := coord.RemoveFromWatchlist(ctx, w.ID, got.Items[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = fake.GetWatchlist(ctx, w.ID)
	if len(got.Items) != 1 || got.Items[0].Movie.ExternalID != "603" {
		t.Errorf("unexpected items after remove %+v", got.Items)
	}
}

func TestContaining(t *testing.T) {
	lists := []models.Watchlist{
		{ID: 1, Items: []models.WatchlistItem{{Movie: models.Movie{ExternalID: "603"}}}},
		{ID: 2},
		{ID: 3, Items: []models.WatchlistItem{{Movie: models.Movie{ExternalID: "348"}}, {Movie: models.Movie{ExternalID: "603"}}}},
	}
	got := Containing(lists, "603")
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("expected [1 3], got %v", got)
	}
}
