// Package lexical implements substring-matching source adapters over the
// record store. Articles, news and employees share the same matching
// logic and differ only in field weights and freshness handling.
package lexical

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// metaRecencyBoost mirrors the scorer's metadata key.
const metaRecencyBoost = "recencyBoost"

// excerptLength bounds the body fragment attached to a candidate.
const excerptLength = 160

// recencyWindow is how long a news post counts as fresh. A post older
// than this gets no boost; a brand-new post gets the full boost.
const recencyWindow = 30 * 24 * time.Hour

// fullRecencyBoost is the boost applied to a just-published record.
const fullRecencyBoost = 0.05

// overFetch is how many times the candidate cap to request from the
// store. The store orders by match position, a proxy for the weighted
// positional score; fetching a multiple lets the real score decide
// which candidates survive the cap.
const overFetch = 4

// Options tune the matching behaviour per source kind.
type Options struct {
	// TitleWeight scales scores for matches found in the title.
	TitleWeight float64

	// BodyWeight scales scores for matches found in body or tags.
	BodyWeight float64

	// RecencyBoost folds a bounded freshness boost into candidate
	// metadata when set. Used by the news adapter.
	RecencyBoost bool
}

// defaultOptions weight title matches twice as high as body matches.
func defaultOptions() Options {
	return Options{TitleWeight: 1.0, BodyWeight: 0.5}
}

// Adapter matches records of one kind by case-insensitive substring.
type Adapter struct {
	kind  domain.SourceKind
	store driven.RecordStore
	opts  Options
	now   func() time.Time
}

// New creates a lexical adapter for the given source kind.
func New(kind domain.SourceKind, store driven.RecordStore, opts Options) *Adapter {
	if opts.TitleWeight == 0 {
		opts.TitleWeight = defaultOptions().TitleWeight
	}
	if opts.BodyWeight == 0 {
		opts.BodyWeight = defaultOptions().BodyWeight
	}
	return &Adapter{kind: kind, store: store, opts: opts, now: time.Now}
}

// NewArticles creates the adapter for published articles.
func NewArticles(store driven.RecordStore) *Adapter {
	return New(domain.SourceArticles, store, defaultOptions())
}

// NewNews creates the adapter for news posts. News candidates carry a
// freshness boost in metadata so recent posts edge out stale ones.
func NewNews(store driven.RecordStore) *Adapter {
	opts := defaultOptions()
	opts.RecencyBoost = true
	return New(domain.SourceNews, store, opts)
}

// NewEmployees creates the adapter for the employee directory. Name
// matches and detail matches are weighted equally: searching for a
// department should surface people as readily as searching for a name.
func NewEmployees(store driven.RecordStore) *Adapter {
	return New(domain.SourceEmployees, store, Options{TitleWeight: 1.0, BodyWeight: 1.0})
}

// Kind returns the source kind this adapter serves.
func (a *Adapter) Kind() domain.SourceKind {
	return a.kind
}

// Search returns candidates whose title, body or tags contain the query
// text, scored by match position and field weight. The store is asked
// for a multiple of the cap so the weighted score, not store ordering,
// decides which candidates survive it.
func (a *Adapter) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Candidate, error) {
	records, err := a.store.FindMatching(ctx, a.kind, query.Text, query.Scope,
		query.ContentTypes, domain.FetchCap*overFetch)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, a.kind, err)
	}

	candidates := make([]domain.Candidate, 0, len(records))
	for _, rec := range records {
		score, ok := a.score(rec, query.Text)
		if !ok {
			continue
		}

		c := domain.Candidate{
			SourceID:    rec.ID,
			SourceKind:  a.kind,
			Title:       rec.Title,
			Excerpt:     excerpt(rec.Body, query.Text),
			ContentType: rec.ContentType,
			RawScore:    score,
			NativeRank:  -1,
			Metadata:    candidateMetadata(rec),
		}
		if a.opts.RecencyBoost {
			if boost := a.recencyBoost(rec.PublishedAt); boost > 0 {
				if c.Metadata == nil {
					c.Metadata = map[string]any{}
				}
				c.Metadata[metaRecencyBoost] = boost
			}
		}
		candidates = append(candidates, c)
	}

	if len(candidates) > domain.FetchCap {
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].RawScore != candidates[j].RawScore {
				return candidates[i].RawScore > candidates[j].RawScore
			}
			return candidates[i].SourceID < candidates[j].SourceID
		})
		candidates = candidates[:domain.FetchCap]
	}
	return candidates, nil
}

// score computes the weighted positional score for a record, taking the
// best field match. Returns false when no field matches.
func (a *Adapter) score(rec domain.Record, queryText string) (float64, bool) {
	q := strings.ToLower(queryText)

	best := 0.0
	matched := false

	if s, ok := fieldScore(rec.Title, q); ok {
		matched = true
		best = s * a.opts.TitleWeight
	}
	if s, ok := fieldScore(rec.Body, q); ok {
		matched = true
		if weighted := s * a.opts.BodyWeight; weighted > best {
			best = weighted
		}
	}
	for _, tag := range rec.Tags {
		if s, ok := fieldScore(tag, q); ok {
			matched = true
			if weighted := s * a.opts.BodyWeight; weighted > best {
				best = weighted
			}
		}
	}
	return best, matched
}

// fieldScore scores a single field: 1.0 for a match at the very start,
// decaying towards 0.5 the later the match appears.
func fieldScore(field, lowerQuery string) (float64, bool) {
	lower := strings.ToLower(field)
	idx := strings.Index(lower, lowerQuery)
	if idx < 0 {
		return 0, false
	}
	if len(lower) == 0 {
		return 0, false
	}
	fraction := float64(idx) / float64(len(lower))
	return 1.0 - 0.5*fraction, true
}

// recencyBoost scales linearly from fullRecencyBoost for a post
// published now down to zero at the edge of the window.
func (a *Adapter) recencyBoost(publishedAt time.Time) float64 {
	if publishedAt.IsZero() {
		return 0
	}
	age := a.now().Sub(publishedAt)
	if age < 0 {
		age = 0
	}
	if age >= recencyWindow {
		return 0
	}
	return fullRecencyBoost * (1 - float64(age)/float64(recencyWindow))
}

// excerpt returns a fragment of the body centred on the first match,
// or the leading fragment when the body does not contain the query.
func excerpt(body, queryText string) string {
	if body == "" {
		return ""
	}

	idx := strings.Index(strings.ToLower(body), strings.ToLower(queryText))
	start := 0
	if idx > excerptLength/4 {
		start = idx - excerptLength/4
	}

	end := start + excerptLength
	if end >= len(body) {
		end = len(body)
	} else {
		// back up to a rune boundary so we never split a character
		for end > start && !utf8Start(body[end]) {
			end--
		}
	}
	for start > 0 && !utf8Start(body[start]) {
		start--
	}

	fragment := body[start:end]
	if start > 0 {
		fragment = "…" + fragment
	}
	if end < len(body) {
		fragment += "…"
	}
	return fragment
}

// utf8Start reports whether b is the first byte of a UTF-8 sequence.
func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// candidateMetadata copies the surfaced record fields into candidate
// metadata without aliasing the record's own map.
func candidateMetadata(rec domain.Record) map[string]any {
	if len(rec.Metadata) == 0 {
		return nil
	}
	meta := make(map[string]any, len(rec.Metadata))
	for k, v := range rec.Metadata {
		meta[k] = v
	}
	return meta
}
