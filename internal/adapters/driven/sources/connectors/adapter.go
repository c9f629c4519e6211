// Package connectors implements the source adapter that federates
// queries out to external systems through connector clients.
package connectors

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// metaConnector is the metadata key naming the client a candidate came from.
const metaConnector = "connector"

// Adapter fans a query out over the configured connector clients.
// Clients fail independently; a dead connector drops its own results
// and the rest still count. The source as a whole only reports
// unavailable when every client fails.
type Adapter struct {
	clients []driven.ConnectorClient
}

// New creates the connectors adapter over the given clients.
func New(clients ...driven.ConnectorClient) *Adapter {
	return &Adapter{clients: clients}
}

// Kind returns the source kind this adapter serves.
func (a *Adapter) Kind() domain.SourceKind {
	return domain.SourceConnectors
}

// Search queries every client concurrently and merges their candidates.
func (a *Adapter) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Candidate, error) {
	if len(a.clients) == 0 {
		return nil, nil
	}

	var (
		mu         sync.Mutex
		candidates []domain.Candidate
		failures   int
		lastErr    error
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, client := range a.clients {
		client := client
		g.Go(func() error {
			results, err := client.Query(gctx, query.Text, domain.FetchCap)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("connector %s failed: %v", client.Name(), err)
				mu.Lock()
				failures++
				lastErr = err
				mu.Unlock()
				return nil
			}

			mu.Lock()
			candidates = append(candidates, a.tagged(client.Name(), results)...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if failures == len(a.clients) {
		return nil, fmt.Errorf("%w: all connectors failed: %v",
			domain.ErrSourceUnavailable, lastErr)
	}

	// deterministic order before the cap is applied
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].RawScore != candidates[j].RawScore {
			return candidates[i].RawScore > candidates[j].RawScore
		}
		return candidates[i].SourceID < candidates[j].SourceID
	})
	if len(candidates) > domain.FetchCap {
		candidates = candidates[:domain.FetchCap]
	}
	return candidates, nil
}

// tagged stamps candidates with the connector kind and namespaces their
// IDs by client so two connectors can return the same native ID.
func (a *Adapter) tagged(name string, results []domain.Candidate) []domain.Candidate {
	for i := range results {
		results[i].SourceKind = domain.SourceConnectors
		results[i].SourceID = name + "/" + results[i].SourceID
		if results[i].Metadata == nil {
			results[i].Metadata = map[string]any{}
		}
		results[i].Metadata[metaConnector] = name
	}
	return results
}

// Close closes every client, returning the first error encountered.
func (a *Adapter) Close() error {
	var firstErr error
	for _, client := range a.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
