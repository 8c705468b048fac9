package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/services"
	"github.com/mawshu/movie-tracker/internal/shared"
)

// WatchlistManager creates, lists, and deletes one user's watchlists.
type WatchlistManager struct {
	client services.Watchlists
	userID int64
}

// NewWatchlistManager creates a [WatchlistManager] acting as userID.
func NewWatchlistManager(client services.Watchlists, userID int64) *WatchlistManager {
	return &WatchlistManager{client: client, userID: userID}
}

// List returns the user's watchlists.
func (m *WatchlistManager) List(ctx context.Context) ([]models.Watchlist, error) {
	return m.client.ListWatchlists(ctx, m.userID)
}

// Get fetches one watchlist with its items in persisted order.
func (m *WatchlistManager) Get(ctx context.Context, watchlistID int64) (*models.Watchlist, error) {
	return m.client.GetWatchlist(ctx, watchlistID)
}

// Create makes an empty watchlist. The title is required.
func (m *WatchlistManager) Create(ctx context.Context, title, description string) (*models.Watchlist, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: watchlist title", shared.ErrMissingArgument)
	}
	return m.client.CreateWatchlist(ctx, m.userID, title, strings.TrimSpace(description))
}

// Delete removes a watchlist and its items.
func (m *WatchlistManager) Delete(ctx context.Context, watchlistID int64) error {
	return m.client.DeleteWatchlist(ctx, watchlistID)
}

// Containing returns the ids of watchlists that already hold externalID.
func Containing(lists []models.Watchlist, externalID string) []int64 {
	var ids []int64
	for _, w := range lists {
		if slices.ContainsFunc(w.Items, func(it models.WatchlistItem) bool { return it.Movie.ExternalID == externalID }) {
			ids = append(ids, w.ID)
		}
	}
	return ids
}
