package tasks

import (
	"context"
	"fmt"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/services"
	"github.com/mawshu/movie-tracker/internal/shared"
)

// Rating bounds accepted by the service.
const (
	MinRating = 1
	MaxRating = 10
)

// EntryRef identifies the (user, movie) relationship a status change applies to.
//
// EntryID is zero and Status is [models.StatusUnset] when no library entry exists yet.
type EntryRef struct {
	ExternalID string
	EntryID    int64
	Status     models.Status
}

// RefFromEntry builds an [EntryRef] from a fetched entry.
func RefFromEntry(e models.LibraryEntry) EntryRef {
	return EntryRef{ExternalID: e.ExternalID(), EntryID: e.ID, Status: e.Status}
}

func (r EntryRef) exists() bool {
	return r.EntryID != 0 && r.Status != models.StatusUnset
}

// Allowed reports whether a user may trigger target from current.
// The current status is never re-triggerable.
func Allowed(current, target models.Status) bool {
	return target.Settable() && current != target
}

// CanEditRatingLiked reports whether rating and liked may be changed.
func CanEditRatingLiked(status models.Status) bool {
	return status == models.StatusWatched
}

// ValidateRating accepts nil (clear) or a value in [MinRating, MaxRating].
func ValidateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < MinRating || *rating > MaxRating {
		return fmt.Errorf("%w: got %d", shared.ErrInvalidRating, *rating)
	}
	return nil
}

// StatusEngine drives the Unset/Planned/Watched state machine for one user.
//
// No local state changes before the service confirms; callers replace their copy of the
// entry with the returned one.
type StatusEngine struct {
	client services.Library
	userID int64
}

// NewStatusEngine creates a [StatusEngine] acting as userID.
func NewStatusEngine(client services.Library, userID int64) *StatusEngine {
	return &StatusEngine{client: client, userID: userID}
}

// SetStatus moves ref to target: an upsert when no entry exists, a status patch otherwise.
//
// Re-setting the current status returns [shared.ErrStatusUnchanged] without a request.
func (e *StatusEngine) SetStatus(ctx context.Context, ref EntryRef, target models.Status) (*models.LibraryEntry, error) {
	if !target.Settable() {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidStatus, target)
	}
	if ref.Status == target {
		return nil, shared.ErrStatusUnchanged
	}

	if !ref.exists() {
		return e.Upsert(ctx, ref.ExternalID, target)
	}

	entry, err := e.client.UpdateStatus(ctx, e.userID, ref.EntryID, target)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Upsert creates or updates the entry for externalID regardless of its known status.
// The service keys entries by (user, movie), so repeating it never creates a second entry.
func (e *StatusEngine) Upsert(ctx context.Context, externalID string, target models.Status) (*models.LibraryEntry, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: external id is required", shared.ErrInvalidArgument)
	}
	if !target.Settable() {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidStatus, target)
	}
	return e.client.UpsertLibraryEntry(ctx, e.userID, externalID, target)
}

// SetRating sets or clears (nil) the rating of a watched entry.
//
// The value is forwarded as given; use [ValidateRating] at the input boundary.
func (e *StatusEngine) SetRating(ctx context.Context, ref EntryRef, rating *int) (*models.LibraryEntry, error) {
	if !CanEditRatingLiked(ref.Status) {
		return nil, shared.ErrNotWatched
	}
	return e.client.UpdateRating(ctx, e.userID, ref.EntryID, rating)
}

// SetLiked sets the liked flag of a watched entry.
func (e *StatusEngine) SetLiked(ctx context.Context, ref EntryRef, liked bool) (*models.LibraryEntry, error) {
	if !CanEditRatingLiked(ref.Status) {
		return nil, shared.ErrNotWatched
	}
	return e.client.UpdateLiked(ctx, e.userID, ref.EntryID, liked)
}

// Remove deletes the library entry; this is the only way back to Unset.
func (e *StatusEngine) Remove(ctx context.Context, entryID int64) error {
	return e.client.DeleteLibraryEntry(ctx, e.userID, entryID)
}
