// Package catalog provides the data-access layer of a media catalog:
// content items linked to categories, plus per-user watchlists and watch
// histories.
//
// It exposes a single Service interface that orchestrates category and
// content lifecycle, content listings (filters, full-text search, sorting)
// and the two per-(user, content) relationships. Repository
// implementations (memory, Postgres) are provided under subpackages.
//
// References
//
// Content stores category links as ids, and relationship records store the
// user and content ids. Nothing is embedded: references are resolved on
// read by the service, and a reference to a deleted entity is treated as
// absent rather than as an error. Reads return resolved records unless the
// caller passes Unresolved().
//
// Uniqueness
//
// At most one watchlist item and one watch history item exist per
// (user, content) pair. The repository enforces this with a uniqueness
// constraint; the service never relies on an in-process lock because
// several processes may share one database.
package catalog
