package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

func newTestMerger() *Merger {
	return NewMerger(NewScorer())
}

func lexCandidate(kind domain.SourceKind, id, title string, raw float64) domain.Candidate {
	return domain.Candidate{
		SourceID:    id,
		SourceKind:  kind,
		Title:       title,
		ContentType: "test",
		RawScore:    raw,
		NativeRank:  -1,
	}
}

func TestMerger_SortsDescendingByScore(t *testing.T) {
	m := newTestMerger()

	perSource := [][]domain.Candidate{
		{
			lexCandidate(domain.SourceArticles, "a1", "Low", 0.3),
			lexCandidate(domain.SourceArticles, "a2", "High", 0.9),
		},
		{
			lexCandidate(domain.SourceNews, "n1", "Mid", 0.6),
		},
	}

	q, err := domain.SearchQuery{Text: "query"}.Normalised()
	require.NoError(t, err)
	result := m.Merge(perSource, q)

	require.Len(t, result.Results, 3)
	assert.Equal(t, "articles:a2", result.Results[0].ID)
	assert.Equal(t, "news:n1", result.Results[1].ID)
	assert.Equal(t, "articles:a1", result.Results[2].ID)
	assert.Equal(t, 3, result.TotalMatched)
}

func TestMerger_TieBreakBySourcePriority(t *testing.T) {
	m := newTestMerger()

	perSource := [][]domain.Candidate{
		{lexCandidate(domain.SourceConnectors, "c1", "Same", 0.8)},
		{lexCandidate(domain.SourceArticles, "a1", "Same", 0.8)},
		{lexCandidate(domain.SourceKnowledgeItems, "k1", "Same", 0.8)},
	}

	q, err := domain.SearchQuery{Text: "query"}.Normalised()
	require.NoError(t, err)
	result := m.Merge(perSource, q)

	require.Len(t, result.Results, 3)
	assert.Equal(t, domain.SourceKnowledgeItems, result.Results[0].SourceKind)
	assert.Equal(t, domain.SourceArticles, result.Results[1].SourceKind)
	assert.Equal(t, domain.SourceConnectors, result.Results[2].SourceKind)
}

func TestMerger_TieBreakByTitle(t *testing.T) {
	m := newTestMerger()

	perSource := [][]domain.Candidate{
		{
			lexCandidate(domain.SourceArticles, "a1", "Zebra guide", 0.8),
			lexCandidate(domain.SourceArticles, "a2", "Alpha guide", 0.8),
		},
	}

	q, err := domain.SearchQuery{Text: "guide"}.Normalised()
	require.NoError(t, err)
	result := m.Merge(perSource, q)

	require.Len(t, result.Results, 2)
	assert.Equal(t, "Alpha guide", result.Results[0].Title)
	assert.Equal(t, "Zebra guide", result.Results[1].Title)
}

func TestMerger_TieWithinTolerance(t *testing.T) {
	m := newTestMerger()

	// Scores differ by less than the tolerance: priority decides.
	perSource := [][]domain.Candidate{
		{lexCandidate(domain.SourceNews, "n1", "Same", 0.8000000001)},
		{lexCandidate(domain.SourceArticles, "a1", "Same", 0.8)},
	}

	q, err := domain.SearchQuery{Text: "query"}.Normalised()
	require.NoError(t, err)
	result := m.Merge(perSource, q)

	require.Len(t, result.Results, 2)
	assert.Equal(t, domain.SourceArticles, result.Results[0].SourceKind)
}

func TestMerger_DeduplicatesKeepingHigherScore(t *testing.T) {
	m := newTestMerger()

	// The same logical document returned by two adapters under the same
	// composite id; only the higher-scored instance survives.
	perSource := [][]domain.Candidate{
		{lexCandidate(domain.SourceArticles, "shared", "Mirrored stale", 0.5)},
		{lexCandidate(domain.SourceArticles, "shared", "Mirrored fresh", 0.9)},
	}

	q, err := domain.SearchQuery{Text: "mirrored"}.Normalised()
	require.NoError(t, err)
	result := m.Merge(perSource, q)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "Mirrored fresh", result.Results[0].Title)
	assert.Equal(t, 1, result.TotalMatched)
}

func TestMerger_NoDuplicateIDsInResponse(t *testing.T) {
	m := newTestMerger()

	perSource := [][]domain.Candidate{
		{
			lexCandidate(domain.SourceArticles, "a1", "One", 0.9),
			lexCandidate(domain.SourceArticles, "a1", "One again", 0.7),
		},
		{lexCandidate(domain.SourceNews, "a1", "Different source", 0.8)},
	}

	q, err := domain.SearchQuery{Text: "query"}.Normalised()
	require.NoError(t, err)
	result := m.Merge(perSource, q)

	seen := make(map[string]bool)
	for _, r := range result.Results {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
	// news:a1 and articles:a1 are distinct logical documents.
	assert.Len(t, result.Results, 2)
}

func TestMerger_MinScoreFilterPerCandidate(t *testing.T) {
	m := newTestMerger()

	// A weak source still contributes its best matches; the filter is
	// per candidate, not per source.
	perSource := [][]domain.Candidate{
		{
			lexCandidate(domain.SourceArticles, "a1", "Strong", 0.9),
			lexCandidate(domain.SourceArticles, "a2", "Weak", 0.2),
		},
		{
			lexCandidate(domain.SourceNews, "n1", "Also weak", 0.1),
		},
	}

	q, err := domain.SearchQuery{Text: "query", MinScore: 0.5}.Normalised()
	require.NoError(t, err)
	result := m.Merge(perSource, q)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "Strong", result.Results[0].Title)
	assert.Equal(t, 1, result.TotalMatched)
	for _, r := range result.Results {
		assert.GreaterOrEqual(t, r.Score, 0.5)
	}
}

func TestMerger_Pagination(t *testing.T) {
	m := newTestMerger()

	var all []domain.Candidate
	for i := 0; i < 12; i++ {
		all = append(all, lexCandidate(domain.SourceArticles,
			string(rune('a'+i)), "Title "+string(rune('a'+i)), 0.9-float64(i)*0.05))
	}
	perSource := [][]domain.Candidate{all}

	page := func(limit, offset int) []domain.RankedResult {
		q, err := domain.SearchQuery{Text: "query", Limit: limit, Offset: offset}.Normalised()
		require.NoError(t, err)
		return m.Merge(perSource, q).Results
	}

	// Two pages of 5 equal the first 10 of one page.
	first := page(5, 0)
	second := page(5, 5)
	combined := append(append([]domain.RankedResult{}, first...), second...)
	assert.Equal(t, page(10, 0), combined)

	// Offset past the end yields an empty page but keeps the total.
	q, err := domain.SearchQuery{Text: "query", Limit: 5, Offset: 50}.Normalised()
	require.NoError(t, err)
	result := m.Merge(perSource, q)
	assert.Empty(t, result.Results)
	assert.Equal(t, 12, result.TotalMatched)
}

func TestMerger_SemanticScoresNormalisedBeforeRanking(t *testing.T) {
	m := newTestMerger()

	semantic := domain.Candidate{
		SourceID:   "kb1",
		SourceKind: domain.SourceInternalKB,
		Title:      "Semantic hit",
		RawScore:   0.9, // cosine similarity -> 0.95 normalised
		Semantic:   true,
	}
	lexical := lexCandidate(domain.SourceArticles, "a1", "Lexical hit", 0.9)

	q, err := domain.SearchQuery{Text: "query"}.Normalised()
	require.NoError(t, err)
	result := m.Merge([][]domain.Candidate{{semantic}, {lexical}}, q)

	require.Len(t, result.Results, 2)
	assert.Equal(t, "Semantic hit", result.Results[0].Title)
	assert.InDelta(t, 0.95, result.Results[0].Score, 1e-9)
}
