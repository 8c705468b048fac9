// Package repositories implements SQLite persistence for client-local state.
//
// The service owns every movie, library entry, and watchlist; this package only stores what the
// client itself needs between runs.
//
// Key Implementations:
//   - [SessionRepository] : The user this client acts as (a single row)
//   - [SearchHistoryRepository] : Recent catalog searches, newest first
//
// Both take a database opened and migrated by [shared.OpenDatabase].
package repositories
