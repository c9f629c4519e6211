package driven

import (
	"context"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// SourceAdapter translates a query into a source-specific lookup and
// returns a normalised candidate list. Each domain.SourceKind maps to
// exactly one adapter; adding a source means adding one implementation
// and one registry entry.
//
// Adapters are pure query-time readers: a call is a function of the
// query and scope against an external read-only store. Implementations
// must honour ctx cancellation and return at most domain.FetchCap
// candidates.
type SourceAdapter interface {
	// Kind returns the source kind this adapter serves.
	Kind() domain.SourceKind

	// Search returns candidates matching the query text within the
	// tenant scope. Failures are reported as errors wrapping
	// domain.ErrSourceUnavailable; the orchestrator recovers them
	// without aborting sibling adapters.
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.Candidate, error)
}
