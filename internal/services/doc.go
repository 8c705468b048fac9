// Package services defines the [Catalog] interface for the remote movie catalog/library service and implements it over HTTP.
//
// # Catalog Interface
//
// [Catalog] is composed of [Users], [Movies], [Library], and [Watchlists] so the engines in
// the tasks package depend only on the calls they make.
//
// # HTTP Implementation
//
// [CatalogService] talks JSON to the service's REST API:
//   - GET/POST /api/users
//   - GET /api/movies/search, GET /api/movies/{id}, POST /api/movies/import/{externalId}
//   - GET/POST /api/users/{userId}/library, PATCH .../{id}/status|rating|liked, DELETE .../{id}
//   - GET/POST /api/users/{userId}/watchlists, GET/DELETE /api/watchlists/{id}
//   - POST /api/watchlists/{id}/items, DELETE .../items/{itemId}, PATCH .../items/reorder
//
// Every request carries an X-Request-ID header (a v4 UUID). An optional [rate.Limiter]
// paces outgoing requests. Requests are never retried.
//
// # Error Handling
//
// Non-2xx responses are returned as [*shared.APIError], which unwraps to a classification:
//   - [shared.ErrConflict] : 409, duplicate membership or entity
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrAPIRequest] : any other non-success status
//
// Network-level failures wrap [shared.ErrTransport].
package services
