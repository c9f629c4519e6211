package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

func TestQueryFromInput(t *testing.T) {
	query, err := queryFromInput(SearchInput{
		Query:             "expense policy",
		Sources:           []string{"articles", "internal_kb"},
		ContentTypes:      []string{"article"},
		Limit:             5,
		Offset:            10,
		MinScore:          0.3,
		Semantic:          true,
		IncludeConnectors: true,
		OrganizationID:    "org-1",
		UserID:            "u-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "expense policy", query.Text)
	assert.Equal(t, []domain.SourceKind{domain.SourceArticles, domain.SourceInternalKB}, query.Sources)
	assert.Equal(t, []string{"article"}, query.ContentTypes)
	assert.Equal(t, 5, query.Limit)
	assert.Equal(t, 10, query.Offset)
	assert.InDelta(t, 0.3, query.MinScore, 0.001)
	assert.True(t, query.SemanticSearch)
	assert.True(t, query.IncludeConnectors)
	assert.Equal(t, "org-1", query.Scope.OrganizationID)
	assert.Equal(t, "u-1", query.Scope.UserID)
}

func TestQueryFromInput_UnknownSource(t *testing.T) {
	_, err := queryFromInput(SearchInput{Query: "x", Sources: []string{"wiki"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSource)
}

func TestHandleSearch(t *testing.T) {
	mock := &mockSearchService{
		result: &domain.FederatedSearchResult{
			Results: []domain.RankedResult{
				{ID: "articles:a-1", SourceKind: domain.SourceArticles,
					Title: "Expense policy", Score: 0.9, ContentType: "article",
					Metadata: map[string]any{"url": "https://intranet/a-1"}},
			},
			TotalMatched:   1,
			SourcesQueried: []domain.SourceKind{domain.SourceArticles},
			SourcesFailed:  []domain.SourceKind{domain.SourceNews},
			TookMs:         12,
		},
	}
	server, err := NewServer(&Ports{Search: mock})
	require.NoError(t, err)

	_, output, err := server.handleSearch(context.Background(), nil,
		SearchInput{Query: "expense"})
	require.NoError(t, err)

	require.Len(t, output.Results, 1)
	assert.Equal(t, "articles:a-1", output.Results[0].ID)
	assert.Equal(t, "articles", output.Results[0].SourceKind)
	assert.Equal(t, "https://intranet/a-1", output.Results[0].URL)
	assert.Equal(t, 1, output.TotalMatched)
	assert.Equal(t, []string{"articles"}, output.SourcesQueried)
	assert.Equal(t, []string{"news"}, output.SourcesFailed)
	assert.Equal(t, int64(12), output.TookMs)

	assert.Equal(t, "expense", mock.lastQuery.Text)
}

func TestHandleSearch_ErrorPassesThrough(t *testing.T) {
	mock := &mockSearchService{err: errors.New("boom")}
	server, err := NewServer(&Ports{Search: mock})
	require.NoError(t, err)

	_, _, err = server.handleSearch(context.Background(), nil, SearchInput{Query: "x"})
	assert.Error(t, err)
}
