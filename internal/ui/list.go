package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/mawshu/movie-tracker/internal/models"
)

var (
	_ list.Item = watchlistItem{}
)

// watchlistItem wraps [models.Watchlist] to implement [list.Item].
type watchlistItem struct {
	watchlist models.Watchlist
}

func (i watchlistItem) FilterValue() string { return i.watchlist.Title }
func (i watchlistItem) Title() string       { return i.watchlist.Title }
func (i watchlistItem) Description() string {
	desc := fmt.Sprintf("%d movies", len(i.watchlist.Items))
	if i.watchlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.watchlist.Description)
	}
	return desc
}

// itemLine renders one watchlist item as a row of the items view.
func itemLine(index int, item models.WatchlistItem) string {
	title := item.Movie.Title
	if item.Movie.Year != 0 {
		title = fmt.Sprintf("%s (%d)", title, item.Movie.Year)
	}
	return fmt.Sprintf("%2d. %s", index+1, title)
}
