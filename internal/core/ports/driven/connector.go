package driven

import (
	"context"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// ConnectorClient queries one external federated system (a remote search
// endpoint, GitHub, Google Drive, ...). Connector clients are the highest
// latency and highest failure-risk collaborators; the connectors adapter
// gives each call its own deadline and isolates failures per client.
type ConnectorClient interface {
	// Name identifies the connector (e.g. "github", "support-portal").
	Name() string

	// Query returns external candidates for the query text.
	// RawScore must be in [0,1]; clients without native scoring should
	// derive it from result rank.
	Query(ctx context.Context, text string, limit int) ([]domain.Candidate, error)

	// Close releases resources.
	Close() error
}
