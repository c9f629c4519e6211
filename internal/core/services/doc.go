// Package services implements the driving port interfaces.
// Services contain the core business logic: relevance scoring, result
// merging, highlighting and the federated search orchestrator that
// fans out to the registered source adapters.
//
// Services depend only on domain types and driven ports.
package services
