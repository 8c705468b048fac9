package tasks

import (
	"strings"
	"testing"
)

func TestPhaseString(t *testing.T) {
	tt := map[Phase]string{
		FetchLibrary:    "fetch_library",
		FetchWatchlists: "fetch_watchlists",
		SearchMovies:    "search_movies",
		AddToWatchlist:  "add_to_watchlist",
		SaveOrder:       "save_order",
		Phase(99):       "",
	}
	for p, want := range tt {
		if got := p.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestSendProgress(t *testing.T) {
	sendProgress(nil, fetchLibraryUpdate(1))

	full := make(chan ProgressUpdate, 1)
	sendProgress(full, fetchLibraryUpdate(1))
	sendProgress(full, fetchLibraryUpdate(2))

	u := <-full
	if !strings.Contains(u.Message, "1 movies") {
		t.Errorf("expected the first update to be kept, got %q", u.Message)
	}
	select {
	case extra := <-full:
		t.Errorf("expected the second update to be dropped, got %q", extra.Message)
	default:
	}
}

func TestAddTargetUpdate(t *testing.T) {
	u := addTargetUpdate(2, 3, TargetResult{WatchlistID: 7, Outcome: OutcomeAlreadyPresent})
	if u.Step != 2 || u.Total != 3 || u.Phase != AddToWatchlist {
		t.Errorf("unexpected update %+v", u)
	}
	if !strings.Contains(u.Message, "already in watchlist 7") {
		t.Errorf("unexpected message %q", u.Message)
	}
	if tr, ok := u.Data.(TargetResult); !ok || tr.WatchlistID != 7 {
		t.Errorf("expected target result data, got %#v", u.Data)
	}
}
