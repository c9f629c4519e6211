package mcp

import (
	"context"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driving"
)

// Ensure mock implements the interface.
var _ driving.FederatedSearch = (*mockSearchService)(nil)

// mockSearchService records the last query and returns canned data.
type mockSearchService struct {
	lastQuery domain.SearchQuery
	result    *domain.FederatedSearchResult
	err       error
}

func (m *mockSearchService) Search(
	_ context.Context, query domain.SearchQuery,
) (*domain.FederatedSearchResult, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.FederatedSearchResult{}, nil
}
