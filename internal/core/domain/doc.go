// Package domain defines the core business entities for federated search.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchQuery: A validated search request with tenant scope
//   - SourceKind: One queryable origin of searchable content
//   - Candidate: An unranked match returned by a single source adapter
//   - RankedResult: A scored, deduplicated search hit
//   - FederatedSearchResult: The unified response for one query
//   - Record: The read model for internally stored content
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
