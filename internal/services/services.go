// package services defines interface Catalog for the movie catalog/library HTTP service
package services

import (
	"context"

	"github.com/mawshu/movie-tracker/internal/models"
)

// Catalog is the full request/response boundary of the movie catalog/library service.
//
// The narrower interfaces let each engine depend only on the operations it issues.
type Catalog interface {
	Users
	Movies
	Library
	Watchlists
}

// Users lists and creates accounts. There is no authentication.
type Users interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.NewUser) (*models.User, error)
}

// Movies searches the upstream catalog and imports movies by external id.
type Movies interface {
	SearchMovies(ctx context.Context, q models.SearchQuery) ([]models.Movie, error)
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	ImportMovie(ctx context.Context, externalID string) (*models.Movie, error)
}

// Library manages a user's library entries.
type Library interface {
	GetLibrary(ctx context.Context, userID int64) ([]models.LibraryEntry, error)

	// UpsertLibraryEntry creates the (user, movie) entry or updates its status if it exists.
	// The service imports the movie on demand.
	UpsertLibraryEntry(ctx context.Context, userID int64, externalID string, status models.Status) (*models.LibraryEntry, error)

	UpdateStatus(ctx context.Context, userID, entryID int64, status models.Status) (*models.LibraryEntry, error)

	// UpdateRating sets the rating; nil clears it.
	UpdateRating(ctx context.Context, userID, entryID int64, rating *int) (*models.LibraryEntry, error)

	UpdateLiked(ctx context.Context, userID, entryID int64, liked bool) (*models.LibraryEntry, error)
	DeleteLibraryEntry(ctx context.Context, userID, entryID int64) error
}

// Watchlists manages a user's watchlists and their ordered items.
type Watchlists interface {
	ListWatchlists(ctx context.Context, userID int64) ([]models.Watchlist, error)
	CreateWatchlist(ctx context.Context, userID int64, title, description string) (*models.Watchlist, error)
	GetWatchlist(ctx context.Context, watchlistID int64) (*models.Watchlist, error)
	DeleteWatchlist(ctx context.Context, watchlistID int64) error

	// AddWatchlistItem appends the movie to the watchlist. A duplicate add fails with an
	// error matching [shared.ErrConflict].
	AddWatchlistItem(ctx context.Context, watchlistID int64, externalID string) (*models.WatchlistItem, error)
	RemoveWatchlistItem(ctx context.Context, watchlistID, itemID int64) error

	// ReorderWatchlist replaces the watchlist order with itemIDs; the service renumbers positions.
	ReorderWatchlist(ctx context.Context, watchlistID int64, itemIDs []int64) error
}
