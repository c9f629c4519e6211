package domain

import (
	"fmt"
	"strings"
)

// Normalised validates the query and fills in defaults, returning a copy
// ready for dispatch. The original query is never mutated.
//
// Validation rules:
//   - Text must be at least MinQueryLength characters after trimming.
//   - Every requested source must be a known SourceKind.
//   - Limit defaults to DefaultLimit and is capped at MaxLimit.
//   - Offset and MinScore are clamped to their valid ranges.
//
// Source resolution: when Sources is empty the default set is used, with
// connectors appended when IncludeConnectors is set. An explicitly listed
// connectors source still requires IncludeConnectors; without the flag it
// is dropped from the dispatch set rather than rejected.
func (q SearchQuery) Normalised() (SearchQuery, error) {
	q.Text = strings.TrimSpace(q.Text)
	if len([]rune(q.Text)) < MinQueryLength {
		return q, fmt.Errorf("%w: query text must be at least %d characters", ErrInvalidQuery, MinQueryLength)
	}

	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.MinScore < 0 {
		q.MinScore = 0
	}
	if q.MinScore > 1 {
		q.MinScore = 1
	}

	if len(q.Sources) == 0 {
		q.Sources = DefaultSources()
		if q.IncludeConnectors {
			q.Sources = append(q.Sources, SourceConnectors)
		}
		return q, nil
	}

	resolved := make([]SourceKind, 0, len(q.Sources))
	seen := make(map[SourceKind]bool, len(q.Sources))
	for _, s := range q.Sources {
		if !s.Valid() {
			return q, fmt.Errorf("%w: %q", ErrInvalidSource, string(s))
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		if s == SourceConnectors && !q.IncludeConnectors {
			continue
		}
		resolved = append(resolved, s)
	}
	q.Sources = resolved

	return q, nil
}
