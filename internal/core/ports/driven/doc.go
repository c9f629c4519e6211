// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceAdapter: Translates a query into a source-specific lookup
//   - RecordStore: Read access to internally stored content records
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, semantic
//     search degrades to lexical matching.
//   - VectorIndex: Vector storage/search. Only enabled when
//     EmbeddingService is configured.
//   - ConnectorClient: External federated systems. Only queried when a
//     request opts in to connectors.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
