// Package tasks implements the client-side library and watchlist synchronization layer.
//
// # Components
//
//   - [LibraryIndex] : external id → membership lookup, rebuilt from every library fetch by [BuildIndex]
//   - [StatusEngine] : the Unset → Planned ⇄ Watched state machine; rating and liked only once watched
//   - [MembershipCoordinator] : sequential multi-watchlist adds with per-target conflict aggregation
//   - [OrderSession] : optimistic local reordering of a watchlist committed in one request
//   - [Searcher] : annotated catalog search with concurrent library/watchlist prefetch
//
// # Preconditions
//
// Caller contract violations are refused before any request is made:
//   - [shared.ErrEmptySelection] : no target watchlists
//   - [shared.ErrNotWatched] : rating or liked change on a non-watched entry
//   - [shared.ErrStatusUnchanged] : re-setting the current status
//   - [shared.ErrSortActive], [shared.ErrPendingReorder] : moves and display sorts are exclusive modes
//
// # Errors
//
// Service errors are returned unchanged. The only one absorbed is a conflict during a
// watchlist add, which becomes [OutcomeAlreadyPresent]. Nothing is retried and nothing is
// rolled back.
//
// # Progress Reporting
//
// Multi-request operations accept an optional channel of [ProgressUpdate]. Sends use select
// with default so a slow consumer never blocks an operation.
package tasks
