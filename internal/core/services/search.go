package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driving"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

// Ensure FederatedSearchService implements the interface.
var _ driving.FederatedSearch = (*FederatedSearchService)(nil)

// SearchConfig holds orchestrator tuning.
type SearchConfig struct {
	// AdapterTimeout bounds each internal source adapter call.
	AdapterTimeout time.Duration

	// ConnectorTimeout bounds the connectors adapter independently.
	// External systems are the slowest and flakiest collaborators; one
	// slow connector must not consume the other sources' budget.
	ConnectorTimeout time.Duration
}

// DefaultSearchConfig returns conservative defaults.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		AdapterTimeout:   2 * time.Second,
		ConnectorTimeout: 4 * time.Second,
	}
}

// FederatedSearchService is the federated search orchestrator. It is
// stateless per call: no cross-request state exists beyond the external
// stores the adapters read from.
type FederatedSearchService struct {
	registry    *AdapterRegistry
	merger      *Merger
	highlighter *Highlighter

	mu  sync.RWMutex
	cfg SearchConfig
}

// NewFederatedSearchService creates the orchestrator.
func NewFederatedSearchService(registry *AdapterRegistry, cfg SearchConfig) *FederatedSearchService {
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = DefaultSearchConfig().AdapterTimeout
	}
	if cfg.ConnectorTimeout <= 0 {
		cfg.ConnectorTimeout = DefaultSearchConfig().ConnectorTimeout
	}
	return &FederatedSearchService{
		registry:    registry,
		merger:      NewMerger(NewScorer()),
		highlighter: NewHighlighter(),
		cfg:         cfg,
	}
}

// SetConfig replaces the orchestrator tuning. Used by config hot reload.
func (s *FederatedSearchService) SetConfig(cfg SearchConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.AdapterTimeout > 0 {
		s.cfg.AdapterTimeout = cfg.AdapterTimeout
	}
	if cfg.ConnectorTimeout > 0 {
		s.cfg.ConnectorTimeout = cfg.ConnectorTimeout
	}
}

// Search validates the query, fans out to the requested adapters
// concurrently, merges, paginates and highlights.
func (s *FederatedSearchService) Search(
	ctx context.Context, query domain.SearchQuery,
) (*domain.FederatedSearchResult, error) {
	logger.Section("Federated Search")

	q, err := query.Normalised()
	if err != nil {
		return nil, err
	}
	logger.Debug("query=%q sources=%v limit=%d offset=%d minScore=%.2f semantic=%t",
		q.Text, q.Sources, q.Limit, q.Offset, q.MinScore, q.SemanticSearch)

	start := time.Now()

	perSource := make([][]domain.Candidate, len(q.Sources))
	failed := make([]bool, len(q.Sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range q.Sources {
		adapter := s.registry.Get(kind)
		if adapter == nil {
			logger.Warn("no adapter registered for source %s", kind)
			failed[i] = true
			continue
		}

		g.Go(func() error {
			tctx, cancel := context.WithTimeout(gctx, s.timeoutFor(kind))
			defer cancel()

			candidates, err := adapter.Search(tctx, q)
			if err != nil {
				// Caller cancellation aborts the whole request; there
				// is no partial-response mode. Everything else is a
				// recoverable per-source failure.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("source %s failed: %v", kind, err)
				failed[i] = true
				return nil
			}
			if len(candidates) > domain.FetchCap {
				candidates = candidates[:domain.FetchCap]
			}
			logger.Debug("source %s: %d candidates", kind, len(candidates))
			perSource[i] = candidates
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("federated search aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("federated search aborted: %w", err)
	}

	result := s.merger.Merge(perSource, q)
	result.SourcesQueried = sortedKinds(q.Sources, nil)
	result.SourcesFailed = sortedKinds(q.Sources, failed)
	result.TookMs = time.Since(start).Milliseconds()

	if q.Highlight {
		s.highlighter.Apply(result.Results, q.Text)
	}

	logger.Info("results=%d totalMatched=%d failed=%v took=%dms",
		len(result.Results), result.TotalMatched, result.SourcesFailed, result.TookMs)

	return result, nil
}

// timeoutFor returns the per-adapter budget for a source kind.
func (s *FederatedSearchService) timeoutFor(kind domain.SourceKind) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kind == domain.SourceConnectors {
		return s.cfg.ConnectorTimeout
	}
	return s.cfg.AdapterTimeout
}

// sortedKinds returns the kinds (optionally filtered by a mask) in
// priority order so responses are deterministic.
func sortedKinds(kinds []domain.SourceKind, mask []bool) []domain.SourceKind {
	out := make([]domain.SourceKind, 0, len(kinds))
	for i, k := range kinds {
		if mask == nil || mask[i] {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority() != out[j].Priority() {
			return out[i].Priority() < out[j].Priority()
		}
		return out[i] < out[j]
	})
	return out
}
