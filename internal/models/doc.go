// Package models defines the entities exchanged with the movie catalog/library service.
//
// All entities are owned and persisted by the remote service; the client only holds them in memory:
//   - [Movie] : Catalog record keyed by its external id, with a numeric id once imported
//   - [User] : Account; a numeric id is the only identity the client knows
//   - [LibraryEntry] : A user's [Status], rating, and liked flag for one movie
//   - [Watchlist] : Named, ordered collection owned by one user
//   - [WatchlistItem] : One movie's membership and position in a watchlist
//
// [Status] is a tagged value ({Unset, Planned, Watched}) rather than two booleans,
// so "planned" and "watched" can never be set at the same time.
package models
