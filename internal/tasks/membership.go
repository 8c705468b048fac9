package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/services"
	"github.com/mawshu/movie-tracker/internal/shared"
)

// Outcome classifies one add-to-watchlist attempt.
type Outcome int

const (
	OutcomeAdded Outcome = iota
	OutcomeAlreadyPresent
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeAlreadyPresent:
		return "already_present"
	case OutcomeFailed:
		return "failed"
	default:
		return ""
	}
}

// TargetResult is the outcome for one watchlist.
type TargetResult struct {
	WatchlistID int64
	Outcome     Outcome
	Item        *models.WatchlistItem // Set when Outcome is OutcomeAdded
	Err         error                 // Set when Outcome is OutcomeFailed
}

// MembershipResult aggregates a completed multi-target add.
type MembershipResult struct {
	ExternalID     string
	Added          int
	AlreadyPresent int
	Targets        []TargetResult // In request order
}

// AllAdded reports whether every target accepted the movie.
func (r *MembershipResult) AllAdded() bool {
	return r.Added > 0 && r.AlreadyPresent == 0
}

// AllAlreadyPresent reports whether the movie was already in every target.
func (r *MembershipResult) AllAlreadyPresent() bool {
	return r.AlreadyPresent > 0 && r.Added == 0
}

// Mixed reports whether some targets were added and others already held the movie.
func (r *MembershipResult) Mixed() bool {
	return r.Added > 0 && r.AlreadyPresent > 0
}

// Summary renders the two counters as user feedback.
func (r *MembershipResult) Summary() string {
	var parts []string
	if r.Added > 0 {
		parts = append(parts, fmt.Sprintf("added to %d watchlist(s)", r.Added))
	}
	if r.AlreadyPresent > 0 {
		parts = append(parts, fmt.Sprintf("already in %d watchlist(s)", r.AlreadyPresent))
	}
	return strings.Join(parts, ", ")
}

// MembershipError reports a non-conflict failure that stopped a multi-target add.
//
// Completed holds the targets processed before the failure; those adds remain applied.
type MembershipError struct {
	WatchlistID int64
	Completed   []TargetResult
	Err         error
}

func (e *MembershipError) Error() string {
	return fmt.Sprintf("failed to add to watchlist %d after %d of the selected watchlists: %v", e.WatchlistID, len(e.Completed), e.Err)
}

func (e *MembershipError) Unwrap() error {
	return e.Err
}

// MembershipCoordinator adds movies to watchlists, treating duplicates as a normal outcome.
type MembershipCoordinator struct {
	client services.Watchlists
}

// NewMembershipCoordinator creates a [MembershipCoordinator].
func NewMembershipCoordinator(client services.Watchlists) *MembershipCoordinator {
	return &MembershipCoordinator{client: client}
}

// AddToWatchlists adds externalID to each target in order, one request at a time.
//
// A conflict counts as already-present and processing continues. Any other error stops the
// loop and is returned as a [*MembershipError] with a nil result. Targets are de-duplicated,
// keeping the first occurrence. An empty selection makes no requests.
func (c *MembershipCoordinator) AddToWatchlists(ctx context.Context, externalID string, targets []int64, progress chan<- ProgressUpdate) (*MembershipResult, error) {
	targets = dedupe(targets)
	if len(targets) == 0 {
		return nil, shared.ErrEmptySelection
	}
	if externalID == "" {
		return nil, fmt.Errorf("%w: external id is required", shared.ErrInvalidArgument)
	}

	result := &MembershipResult{ExternalID: externalID, Targets: make([]TargetResult, 0, len(targets))}
	for i, id := range targets {
		tr, err := c.AddToWatchlist(ctx, id, externalID)
		sendProgress(progress, addTargetUpdate(i+1, len(targets), tr))
		if err != nil {
			return nil, &MembershipError{WatchlistID: id, Completed: result.Targets, Err: err}
		}

		result.Targets = append(result.Targets, tr)
		switch tr.Outcome {
		case OutcomeAdded:
			result.Added++
		case OutcomeAlreadyPresent:
			result.AlreadyPresent++
		}
	}

	return result, nil
}

// AddToWatchlist adds externalID to a single watchlist. A conflict is reported as
// [OutcomeAlreadyPresent] with a nil error.
func (c *MembershipCoordinator) AddToWatchlist(ctx context.Context, watchlistID int64, externalID string) (TargetResult, error) {
	item, err := c.client.AddWatchlistItem(ctx, watchlistID, externalID)
	switch {
	case err == nil:
		return TargetResult{WatchlistID: watchlistID, Outcome: OutcomeAdded, Item: item}, nil
	case errors.Is(err, shared.ErrConflict):
		return TargetResult{WatchlistID: watchlistID, Outcome: OutcomeAlreadyPresent}, nil
	default:
		return TargetResult{WatchlistID: watchlistID, Outcome: OutcomeFailed, Err: err}, err
	}
}

// RemoveFromWatchlist removes one item.
func (c *MembershipCoordinator) RemoveFromWatchlist(ctx context.Context, watchlistID, itemID int64) error {
	return c.client.RemoveWatchlistItem(ctx, watchlistID, itemID)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
