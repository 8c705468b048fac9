// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a two-view workflow for ordering watchlists:
//  1. [WatchlistListView] : Browse the current user's watchlists
//  2. [ItemsView] : Move items up and down, then save the new order in one request
//
// Item moves are local until saved; see [tasks.OrderSession]. A display sort (title, year, added)
// can be cycled in the items view, but moves are refused while it is active and it cannot be
// enabled with unsaved moves.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Service calls run as commands; while one is in flight, keys other than quit are ignored and the view renders
// from a snapshot, so the session is never touched concurrently.
//
// Keyboard navigation uses vim-style bindings (j/k to select, J/K to move, s, r, o, x, esc, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
