package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mawshu/movie-tracker/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgWatchlistsFetched MsgKind = iota
	MsgWatchlistFetched
	MsgOrderSaved
	MsgItemRemoved
)

// watchlistsFetchedMsg is the constructor for [MsgWatchlistsFetched]
func watchlistsFetchedMsg(watchlists []models.Watchlist, err error) Msg {
	return Msg{kind: MsgWatchlistsFetched, data: watchlists, err: err}
}

// watchlistFetchedMsg is the constructor for [MsgWatchlistFetched]
func watchlistFetchedMsg(watchlist *models.Watchlist, err error) Msg {
	return Msg{kind: MsgWatchlistFetched, data: watchlist, err: err}
}

// orderSavedMsg is the constructor for [MsgOrderSaved]; data is the number of items saved.
func orderSavedMsg(count int, err error) Msg {
	return Msg{kind: MsgOrderSaved, data: count, err: err}
}

// itemRemovedMsg is the constructor for [MsgItemRemoved]; data is the removed item.
func itemRemovedMsg(item models.WatchlistItem, err error) Msg {
	return Msg{kind: MsgItemRemoved, data: item, err: err}
}
