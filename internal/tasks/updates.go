package tasks

import (
	"fmt"

	"github.com/mawshu/movie-tracker/internal/models"
)

// ProgressUpdate represents a progress event during a multi-request operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	FetchWatchlists
	SearchMovies
	AddToWatchlist
	SaveOrder
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case FetchWatchlists:
		return "fetch_watchlists"
	case SearchMovies:
		return "search_movies"
	case AddToWatchlist:
		return "add_to_watchlist"
	case SaveOrder:
		return "save_order"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchLibraryUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded library (%d movies)", count),
	}
}

func fetchWatchlistsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchWatchlists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d watchlists", count),
	}
}

func searchUpdate(q models.SearchQuery, found int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchMovies,
		Step:    q.Page,
		Total:   q.Page,
		Message: fmt.Sprintf("Search %q page %d: %d results", q.Query, q.Page, found),
	}
}

func addTargetUpdate(step, total int, result TargetResult) ProgressUpdate {
	var msg string
	switch result.Outcome {
	case OutcomeAdded:
		msg = fmt.Sprintf("[%d/%d] ✓ added to watchlist %d", step, total, result.WatchlistID)
	case OutcomeAlreadyPresent:
		msg = fmt.Sprintf("[%d/%d] = already in watchlist %d", step, total, result.WatchlistID)
	default:
		msg = fmt.Sprintf("[%d/%d] ✗ watchlist %d: %v", step, total, result.WatchlistID, result.Err)
	}
	return ProgressUpdate{
		Phase:   AddToWatchlist,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    result,
	}
}

func saveOrderUpdate(w models.Watchlist, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveOrder,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saved order of %q (%d items)", w.Title, count),
	}
}
