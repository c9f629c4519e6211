package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidQuery indicates the query text is too short or malformed.
	// Surfaced to callers as a client error; never retried.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidSource indicates an unknown source kind was requested.
	ErrInvalidSource = errors.New("invalid source")

	// ErrSourceUnavailable indicates a single source adapter failed or
	// timed out. Recovered at the orchestrator: the source is recorded
	// in SourcesFailed and contributes zero candidates.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search degrades to lexical matching.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured. Semantic similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrRateLimited indicates an external API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
