package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/services"
	"github.com/mawshu/movie-tracker/internal/shared"
)

// OrderSession holds an optimistic, local ordering of one watchlist's items.
//
// Moves only change the local sequence; [OrderSession.Commit] sends the whole sequence in one
// request. A display sort other than position-ascending is a separate view mode: moves are
// refused while it is active, and it cannot be enabled while moves are unsaved.
//
// An OrderSession is not safe for concurrent use.
type OrderSession struct {
	client    services.Watchlists
	watchlist models.Watchlist // Items cleared; the local order lives in items
	items     []models.WatchlistItem
	committed []int64

	sortKey SortKey
	sortDir Direction

	progress chan<- ProgressUpdate
}

// NewOrderSession starts a session seeded from w.
func NewOrderSession(client services.Watchlists, w *models.Watchlist) *OrderSession {
	s := &OrderSession{client: client, sortKey: SortPosition, sortDir: Ascending}
	s.Seed(w)
	return s
}

// WithProgress makes Commit report through progress.
func (s *OrderSession) WithProgress(progress chan<- ProgressUpdate) *OrderSession {
	s.progress = progress
	return s
}

// Seed replaces the local order with w's items sorted by position, discarding unsaved moves.
func (s *OrderSession) Seed(w *models.Watchlist) {
	s.watchlist = *w
	s.watchlist.Items = nil

	s.items = SortItems(w.Items, SortPosition, Ascending)
	s.committed = s.ItemIDs()
}

// Refresh refetches the watchlist and re-seeds from it.
func (s *OrderSession) Refresh(ctx context.Context) error {
	w, err := s.client.GetWatchlist(ctx, s.watchlist.ID)
	if err != nil {
		return err
	}
	s.Seed(w)
	return nil
}

// Watchlist returns the watchlist's metadata.
func (s *OrderSession) Watchlist() models.Watchlist {
	return s.watchlist
}

// Items returns the local order.
func (s *OrderSession) Items() []models.WatchlistItem {
	return slices.Clone(s.items)
}

// ItemIDs returns the item ids in local order; this is exactly what Commit sends.
func (s *OrderSession) ItemIDs() []int64 {
	ids := make([]int64, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	return ids
}

// Dirty reports whether the local order differs from the last seeded or committed order.
func (s *OrderSession) Dirty() bool {
	return !slices.Equal(s.committed, s.ItemIDs())
}

// SortActive reports whether a display sort other than position-ascending is applied.
func (s *OrderSession) SortActive() bool {
	return s.sortKey != SortPosition || s.sortDir != Ascending
}

// MoveUp swaps itemID with its predecessor. Moving the first item is a no-op.
func (s *OrderSession) MoveUp(itemID int64) error {
	return s.move(itemID, -1)
}

// MoveDown swaps itemID with its successor. Moving the last item is a no-op.
func (s *OrderSession) MoveDown(itemID int64) error {
	return s.move(itemID, 1)
}

func (s *OrderSession) move(itemID int64, delta int) error {
	if s.SortActive() {
		return shared.ErrSortActive
	}

	i := slices.IndexFunc(s.items, func(it models.WatchlistItem) bool { return it.ID == itemID })
	if i < 0 {
		return fmt.Errorf("%w: %d", shared.ErrItemNotFound, itemID)
	}

	j := i + delta
	if j < 0 || j >= len(s.items) {
		return nil
	}
	s.items[i], s.items[j] = s.items[j], s.items[i]
	return nil
}

// SetDisplaySort changes the view ordering. It never affects what Commit sends.
func (s *OrderSession) SetDisplaySort(key SortKey, dir Direction) error {
	if !slices.Contains(ItemSortKeys, key) {
		return fmt.Errorf("%w: sort %q", shared.ErrInvalidArgument, key)
	}
	isDefault := key == SortPosition && dir == Ascending
	if !isDefault && s.Dirty() {
		return shared.ErrPendingReorder
	}
	s.sortKey, s.sortDir = key, dir
	return nil
}

// DisplaySort returns the current display sort.
func (s *OrderSession) DisplaySort() (SortKey, Direction) {
	return s.sortKey, s.sortDir
}

// View returns the items as they should be displayed.
//
// Position sorts follow the local order rather than the stale Position field, so pending
// moves are visible.
func (s *OrderSession) View() []models.WatchlistItem {
	if s.sortKey == SortPosition {
		out := s.Items()
		if s.sortDir == Descending {
			slices.Reverse(out)
		}
		return out
	}
	return SortItems(s.items, s.sortKey, s.sortDir)
}

// Commit sends the full local order to the service.
//
// On success the local positions are renumbered from 1 to match. On failure the local order
// is kept; callers should Refresh to resynchronize.
func (s *OrderSession) Commit(ctx context.Context) error {
	ids := s.ItemIDs()
	if err := s.client.ReorderWatchlist(ctx, s.watchlist.ID, ids); err != nil {
		return err
	}

	for i := range s.items {
		s.items[i].Position = i + 1
	}
	s.committed = ids
	sendProgress(s.progress, saveOrderUpdate(s.watchlist, len(ids)))
	return nil
}

// RemoveItem deletes itemID from the watchlist, then re-seeds from the service.
// Unsaved moves are discarded; a content change never merges into the local order.
func (s *OrderSession) RemoveItem(ctx context.Context, itemID int64) error {
	if !slices.ContainsFunc(s.items, func(it models.WatchlistItem) bool { return it.ID == itemID }) {
		return fmt.Errorf("%w: %d", shared.ErrItemNotFound, itemID)
	}
	if err := s.client.RemoveWatchlistItem(ctx, s.watchlist.ID, itemID); err != nil {
		return err
	}

	if err := s.Refresh(ctx); err != nil {
		s.items = slices.DeleteFunc(s.items, func(it models.WatchlistItem) bool { return it.ID == itemID })
		return fmt.Errorf("item removed, but failed to reload watchlist: %w", err)
	}
	return nil
}
