package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// SearchInput is the input schema for the federated_search tool.
type SearchInput struct {
	Query             string   `json:"query" jsonschema:"the search text (at least 2 characters)"`
	Sources           []string `json:"sources,omitempty" jsonschema:"source kinds to query: internal_kb, knowledge_items, articles, news, employees, connectors; defaults to articles, knowledge_items and news"`
	ContentTypes      []string `json:"contentTypes,omitempty" jsonschema:"restrict results to these content types"`
	Limit             int      `json:"limit,omitempty" jsonschema:"maximum number of results (default 20, max 100)"`
	Offset            int      `json:"offset,omitempty" jsonschema:"number of ranked results to skip"`
	MinScore          float64  `json:"minScore,omitempty" jsonschema:"drop results scoring below this value, between 0 and 1"`
	Semantic          bool     `json:"semantic,omitempty" jsonschema:"use embedding-based retrieval for knowledge base sources"`
	IncludeConnectors bool     `json:"includeConnectors,omitempty" jsonschema:"also query external federated systems"`
	OrganizationID    string   `json:"organizationId,omitempty" jsonschema:"restrict results to one organisation"`
	UserID            string   `json:"userId,omitempty" jsonschema:"restrict results to records visible to this user"`
}

// SearchOutput is the output schema for the federated_search tool.
type SearchOutput struct {
	Results        []SearchResultOutput `json:"results"`
	TotalMatched   int                  `json:"totalMatched"`
	SourcesQueried []string             `json:"sourcesQueried"`
	SourcesFailed  []string             `json:"sourcesFailed,omitempty"`
	TookMs         int64                `json:"tookMs"`
}

// SearchResultOutput represents a single ranked result.
type SearchResultOutput struct {
	ID          string  `json:"id"`
	SourceKind  string  `json:"sourceKind"`
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt,omitempty"`
	Score       float64 `json:"score"`
	ContentType string  `json:"contentType"`
	URL         string  `json:"url,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "federated_search",
		Description: "Search across workplace content sources: knowledge base, articles, news, employee directory and external connectors",
	}, s.handleSearch)
}

// handleSearch handles the federated_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	query, err := queryFromInput(input)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	result, err := s.ports.Search.Search(ctx, query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, outputFromResult(result), nil
}

// queryFromInput converts tool input into a domain query.
func queryFromInput(input SearchInput) (domain.SearchQuery, error) {
	query := domain.SearchQuery{
		Text:              input.Query,
		ContentTypes:      input.ContentTypes,
		Limit:             input.Limit,
		Offset:            input.Offset,
		MinScore:          input.MinScore,
		SemanticSearch:    input.Semantic,
		IncludeConnectors: input.IncludeConnectors,
		Scope: domain.TenantScope{
			UserID:         input.UserID,
			OrganizationID: input.OrganizationID,
		},
	}

	for _, source := range input.Sources {
		kind, err := domain.ParseSourceKind(source)
		if err != nil {
			return domain.SearchQuery{}, fmt.Errorf("invalid source %q: %w", source, err)
		}
		query.Sources = append(query.Sources, kind)
	}
	return query, nil
}

// outputFromResult flattens the domain result into the tool schema.
func outputFromResult(result *domain.FederatedSearchResult) SearchOutput {
	output := SearchOutput{
		Results:        make([]SearchResultOutput, len(result.Results)),
		TotalMatched:   result.TotalMatched,
		SourcesQueried: kindNames(result.SourcesQueried),
		SourcesFailed:  kindNames(result.SourcesFailed),
		TookMs:         result.TookMs,
	}

	for i, r := range result.Results {
		url := ""
		if u, ok := r.Metadata["url"].(string); ok {
			url = u
		}
		output.Results[i] = SearchResultOutput{
			ID:          r.ID,
			SourceKind:  string(r.SourceKind),
			Title:       r.Title,
			Excerpt:     r.Excerpt,
			Score:       r.Score,
			ContentType: r.ContentType,
			URL:         url,
		}
	}
	return output
}

func kindNames(kinds []domain.SourceKind) []string {
	if len(kinds) == 0 {
		return nil
	}
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
