package services

import (
	"math"
	"sort"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// Merger combines scored candidate lists from all active sources into
// one ranked, deduplicated, paginated result set.
//
// The design is merge-then-paginate: all candidates are ranked globally
// before the page is sliced. Paginating per source first would make
// cross-source ranking incorrect.
type Merger struct {
	scorer *Scorer
}

// NewMerger creates a merger using the given scorer.
func NewMerger(scorer *Scorer) *Merger {
	return &Merger{scorer: scorer}
}

// Merge scores and filters all candidates, deduplicates by composite ID,
// sorts, and slices the requested page. TotalMatched is computed before
// pagination. SourcesQueried, SourcesFailed and TookMs are left for the
// orchestrator to fill in.
func (m *Merger) Merge(perSource [][]domain.Candidate, query domain.SearchQuery) *domain.FederatedSearchResult {
	// Flatten, score, filter by minScore per candidate (not per source),
	// dedup keeping the better-ranked instance.
	best := make(map[string]domain.RankedResult)
	for _, candidates := range perSource {
		for _, c := range candidates {
			score := m.scorer.Score(c)
			if score < query.MinScore {
				continue
			}
			r := domain.RankedResult{
				ID:          c.ID(),
				SourceKind:  c.SourceKind,
				Title:       c.Title,
				Excerpt:     c.Excerpt,
				Score:       score,
				ContentType: c.ContentType,
				Metadata:    c.Metadata,
			}
			existing, ok := best[r.ID]
			if !ok || less(existing, r) {
				best[r.ID] = r
			}
		}
	}

	ranked := make([]domain.RankedResult, 0, len(best))
	for _, r := range best {
		ranked = append(ranked, r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return less(ranked[j], ranked[i])
	})

	total := len(ranked)

	// Slice [offset, offset+limit).
	start := query.Offset
	if start > total {
		start = total
	}
	end := start + query.Limit
	if end > total {
		end = total
	}

	return &domain.FederatedSearchResult{
		Results:      ranked[start:end],
		TotalMatched: total,
	}
}

// less reports whether a ranks strictly below b. Scores within
// domain.ScoreTolerance are equal; then the higher-priority source kind
// wins, then lexical title order. The final ID comparison makes the
// ordering total, so merging is deterministic for identical inputs.
func less(a, b domain.RankedResult) bool {
	if math.Abs(a.Score-b.Score) > domain.ScoreTolerance {
		return a.Score < b.Score
	}
	if a.SourceKind.Priority() != b.SourceKind.Priority() {
		return a.SourceKind.Priority() > b.SourceKind.Priority()
	}
	if a.Title != b.Title {
		return a.Title > b.Title
	}
	return a.ID > b.ID
}
