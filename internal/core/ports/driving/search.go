package driving

import (
	"context"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// FederatedSearch is the entry point for multi-source ranked search.
type FederatedSearch interface {
	// Search validates the query, fans out to the requested source
	// adapters, and returns one merged, ranked, paginated result set.
	//
	// Per-source failures are recovered into SourcesFailed; only
	// validation errors (domain.ErrInvalidQuery, domain.ErrInvalidSource),
	// request cancellation and unexpected internal failures are returned
	// as errors.
	Search(ctx context.Context, query domain.SearchQuery) (*domain.FederatedSearchResult, error)
}
