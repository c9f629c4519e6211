package driven

import (
	"context"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// RecordStore provides read access to internally stored content records.
// The search subsystem never owns this data; the store is a thin query
// capability over the platform's relational database.
type RecordStore interface {
	// FindMatching returns up to limit records of the given kind whose
	// title or body contains the match string (case-insensitive), filtered
	// by tenant scope and content types. An empty match string returns
	// records filtered by scope only.
	FindMatching(ctx context.Context, kind domain.SourceKind, match string,
		scope domain.TenantScope, contentTypes []string, limit int) ([]domain.Record, error)

	// Get retrieves a single record by kind and ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, kind domain.SourceKind, id string) (*domain.Record, error)

	// Save inserts or updates a record. Used by the loader, never by
	// the search path.
	Save(ctx context.Context, rec *domain.Record) error

	// Close releases resources.
	Close() error
}
