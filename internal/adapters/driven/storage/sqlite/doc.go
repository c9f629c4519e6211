// Package sqlite provides the SQLite-backed record store.
//
// The store is the search subsystem's read model over platform content.
// Writes only happen through the loader command; the search path is
// read-only. Uses WAL mode for concurrent reads during loads and
// embedded SQL migrations (see the migrations subpackage).
package sqlite
