package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Used in tests and by the one-shot search command when no database
// is configured.
type RecordStore struct {
	mu      sync.RWMutex
	records map[domain.SourceKind]map[string]domain.Record
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[domain.SourceKind]map[string]domain.Record),
	}
}

// Save inserts or updates a record.
func (s *RecordStore) Save(_ context.Context, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.records[rec.Kind]
	if !ok {
		byID = make(map[string]domain.Record)
		s.records[rec.Kind] = byID
	}
	byID[rec.ID] = *rec
	return nil
}

// Get retrieves a record by kind and ID.
func (s *RecordStore) Get(_ context.Context, kind domain.SourceKind, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[kind][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// bodyMatchOffset ranks body-only matches after every title match when
// ordering by match position.
const bodyMatchOffset = 1 << 20

// FindMatching scans records of the kind for a case-insensitive substring
// match in title or body, filtered by scope and content types. Matches
// are ordered by match position (title before body, earlier first, ID as
// tie-break) before the limit applies, so capping keeps the strongest
// matches rather than the lowest IDs.
func (s *RecordStore) FindMatching(
	_ context.Context, kind domain.SourceKind, match string,
	scope domain.TenantScope, contentTypes []string, limit int,
) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(match)

	type matched struct {
		rec domain.Record
		pos int
	}
	var hits []matched
	for _, rec := range s.records[kind] {
		if !rec.VisibleTo(scope) || !rec.MatchesContentType(contentTypes) {
			continue
		}
		pos := 0
		if needle != "" {
			titleIdx := strings.Index(strings.ToLower(rec.Title), needle)
			bodyIdx := strings.Index(strings.ToLower(rec.Body), needle)
			switch {
			case titleIdx >= 0:
				pos = titleIdx
			case bodyIdx >= 0:
				pos = bodyMatchOffset + bodyIdx
			default:
				continue
			}
		}
		hits = append(hits, matched{rec: rec, pos: pos})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].pos != hits[b].pos {
			return hits[a].pos < hits[b].pos
		}
		return hits[a].rec.ID < hits[b].rec.ID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.Record, len(hits))
	for i := range hits {
		out[i] = hits[i].rec
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *RecordStore) Close() error {
	return nil
}
