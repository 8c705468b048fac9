package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
	tu "github.com/mawshu/movie-tracker/internal/testing"
)

func TestAllowed(t *testing.T) {
	tt := []struct {
		current, target models.Status
		want            bool
	}{
		{models.StatusUnset, models.StatusPlanned, true},
		{models.StatusUnset, models.StatusWatched, true},
		{models.StatusPlanned, models.StatusWatched, true},
		{models.StatusWatched, models.StatusPlanned, true},
		{models.StatusPlanned, models.StatusPlanned, false},
		{models.StatusWatched, models.StatusWatched, false},
		{models.StatusWatched, models.StatusUnset, false},
	}

	for _, tc := range tt {
		if got := Allowed(tc.current, tc.target); got != tc.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tc.current, tc.target, got, tc.want)
		}
	}
}

func TestValidateRating(t *testing.T) {
	for _, v := range []int{1, 5, 10} {
		if err := ValidateRating(tu.IntPtr(v)); err != nil {
			t.Errorf("rating %d should be valid: %v", v, err)
		}
	}
	for _, v := range []int{0, -1, 11} {
		if err := ValidateRating(tu.IntPtr(v)); !errors.Is(err, shared.ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", v, err)
		}
	}
	if err := ValidateRating(nil); err != nil {
		t.Errorf("nil rating clears and should be valid: %v", err)
	}
}

func TestStatusEngine(t *testing.T) {
	ctx := context.Background()

	setup := func() (*tu.FakeCatalog, *StatusEngine, int64) {
		fake := tu.NewFakeCatalog(tu.Movies()...)
		user := fake.AddUser("ann")
		return fake, NewStatusEngine(fake, user.ID), user.ID
	}

	t.Run("unset upserts", func(t *testing.T) {
		fake, engine, userID := setup()

		got, err := engine.SetStatus(ctx, EntryRef{ExternalID: "603"}, models.StatusPlanned)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.StatusPlanned || got.ExternalID() != "603" {
			t.Errorf("unexpected entry %+v", got)
		}
		if len(fake.CallsTo("UpsertLibraryEntry")) != 1 || len(fake.CallsTo("UpdateStatus")) != 0 {
			t.Errorf("expected a single upsert, got %v", fake.Calls())
		}
		if fake.EntryCount(userID) != 1 {
			t.Errorf("expected 1 entry, got %d", fake.EntryCount(userID))
		}
	})

	t.Run("existing entry patches status only", func(t *testing.T) {
		fake, engine, userID := setup()
		seeded := fake.SeedEntry(userID, "603", models.StatusPlanned)

		got, err := engine.SetStatus(ctx, RefFromEntry(seeded), models.StatusWatched)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.StatusWatched || got.ID != seeded.ID {
			t.Errorf("unexpected entry %+v", got)
		}
		if got.WatchedAt == nil {
			t.Error("expected watchedAt to be set")
		}
		if len(fake.CallsTo("UpdateStatus")) != 1 || len(fake.CallsTo("UpsertLibraryEntry")) != 0 {
			t.Errorf("expected a single status patch, got %v", fake.Calls())
		}
	})

	t.Run("planned and watched are exclusive", func(t *testing.T) {
		fake, engine, userID := setup()
		seeded := fake.SeedEntry(userID, "603", models.StatusWatched)

		got, err := engine.SetStatus(ctx, RefFromEntry(seeded), models.StatusPlanned)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.StatusPlanned {
			t.Errorf("expected PLANNED, got %s", got.Status)
		}
		if got.WatchedAt != nil {
			t.Error("watchedAt should be cleared when planned")
		}
	})

	t.Run("same status makes no request", func(t *testing.T) {
		fake, engine, userID := setup()
		seeded := fake.SeedEntry(userID, "603", models.StatusWatched)

		_, err := engine.SetStatus(ctx, RefFromEntry(seeded), models.StatusWatched)
		if !errors.Is(err, shared.ErrStatusUnchanged) {
			t.Fatalf("expected ErrStatusUnchanged, got %v", err)
		}
		if len(fake.Calls()) != 0 {
			t.Errorf("expected no calls, got %v", fake.Calls())
		}
	})

	t.Run("forced upsert is idempotent", func(t *testing.T) {
		fake, engine, userID := setup()

		first, err := engine.Upsert(ctx, "603", models.StatusWatched)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := engine.Upsert(ctx, "603", models.StatusWatched)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("expected the same entry, got %d and %d", first.ID, second.ID)
		}
		if fake.EntryCount(userID) != 1 {
			t.Errorf("expected 1 entry, got %d", fake.EntryCount(userID))
		}
	})

	t.Run("rejects unset target", func(t *testing.T) {
		fake, engine, _ := setup()

		if _, err := engine.SetStatus(ctx, EntryRef{ExternalID: "603"}, models.StatusUnset); !errors.Is(err, shared.ErrInvalidStatus) {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
		if _, err := engine.Upsert(ctx, "", models.StatusPlanned); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(fake.Calls()) != 0 {
			t.Errorf("expected no calls, got %v", fake.Calls())
		}
	})

	t.Run("rating and liked require watched", func(t *testing.T) {
		fake, engine, userID := setup()
		planned := fake.SeedEntry(userID, "603", models.StatusPlanned)

		if _, err := engine.SetRating(ctx, RefFromEntry(planned), tu.IntPtr(8)); !errors.Is(err, shared.ErrNotWatched) {
			t.Errorf("expected ErrNotWatched, got %v", err)
		}
		if _, err := engine.SetLiked(ctx, RefFromEntry(planned), true); !errors.Is(err, shared.ErrNotWatched) {
			t.Errorf("expected ErrNotWatched, got %v", err)
		}
		if _, err := engine.SetRating(ctx, EntryRef{ExternalID: "348"}, nil); !errors.Is(err, shared.ErrNotWatched) {
			t.Errorf("expected ErrNotWatched for unset, got %v", err)
		}
		if len(fake.Calls()) != 0 {
			t.Errorf("no rating or liked request should be built, got %v", fake.Calls())
		}
	})

	t.Run("rating and liked on watched", func(t *testing.T) {
		fake, engine, userID := setup()
		watched := fake.SeedEntry(userID, "603", models.StatusWatched)
		ref := RefFromEntry(watched)

		got, err := engine.SetRating(ctx, ref, tu.IntPtr(9))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Rating == nil || *got.Rating != 9 {
			t.Errorf("expected rating 9, got %v", got.Rating)
		}

		got, err = engine.SetRating(ctx, ref, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Rating != nil {
			t.Errorf("expected cleared rating, got %v", *got.Rating)
		}

		got, err = engine.SetLiked(ctx, ref, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Liked {
			t.Error("expected liked")
		}
	})

	t.Run("service failure is propagated", func(t *testing.T) {
		fake, engine, userID := setup()
		watched := fake.SeedEntry(userID, "603", models.StatusWatched)
		fake.FailWhen("UpdateStatus", func([]any) error { return tu.ServerError("boom") })

		_, err := engine.SetStatus(ctx, RefFromEntry(watched), models.StatusPlanned)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		fake, engine, userID := setup()
		seeded := fake.SeedEntry(userID, "603", models.StatusPlanned)

		if err := engine.Remove(ctx, seeded.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fake.EntryCount(userID) != 0 {
			t.Error("expected entry to be deleted")
		}
		if err := engine.Remove(ctx, seeded.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
