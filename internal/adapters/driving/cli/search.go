package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

var (
	searchSources    []string
	searchTypes      []string
	searchLimit      int
	searchOffset     int
	searchMinScore   float64
	searchSemantic   bool
	searchConnectors bool
	searchHighlight  bool
	searchOrgID      string
	searchUserID     string
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a one-shot federated search",
	Long: `Runs a federated search from the command line and prints the ranked
results. Useful for smoke-testing a configuration without the API.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchSources, "sources", nil,
		"source kinds to query (default articles,knowledge_items,news)")
	searchCmd.Flags().StringSliceVar(&searchTypes, "types", nil,
		"restrict results to these content types")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultLimit,
		"maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "ranked results to skip")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0,
		"drop results scoring below this value")
	searchCmd.Flags().BoolVar(&searchSemantic, "semantic", false,
		"use embedding-based retrieval for knowledge base sources")
	searchCmd.Flags().BoolVar(&searchConnectors, "connectors", false,
		"also query external federated systems")
	searchCmd.Flags().BoolVar(&searchHighlight, "highlight", false,
		"mark query terms in result text")
	searchCmd.Flags().StringVar(&searchOrgID, "org", "", "organisation scope")
	searchCmd.Flags().StringVar(&searchUserID, "user", "", "user scope")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	query := domain.SearchQuery{
		Text:              args[0],
		ContentTypes:      searchTypes,
		Limit:             searchLimit,
		Offset:            searchOffset,
		MinScore:          searchMinScore,
		SemanticSearch:    searchSemantic,
		IncludeConnectors: searchConnectors,
		Highlight:         searchHighlight,
		Scope: domain.TenantScope{
			UserID:         searchUserID,
			OrganizationID: searchOrgID,
		},
	}
	for _, source := range searchSources {
		kind, err := domain.ParseSourceKind(source)
		if err != nil {
			return err
		}
		query.Sources = append(query.Sources, kind)
	}

	result, err := a.search.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, result)
	}
	return outputTable(cmd, result)
}

func outputJSON(cmd *cobra.Command, result *domain.FederatedSearchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputTable(cmd *cobra.Command, result *domain.FederatedSearchResult) error {
	if len(result.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("%d of %d results (%dms)\n\n",
		len(result.Results), result.TotalMatched, result.TookMs)
	for i, r := range result.Results {
		cmd.Printf("[%d] %s  (%s, %.2f)\n", i+1, r.Title, r.SourceKind, r.Score)
		if r.Excerpt != "" {
			cmd.Printf("    %s\n", r.Excerpt)
		}
	}
	if len(result.SourcesFailed) > 0 {
		cmd.Printf("\nsources failed: %v\n", result.SourcesFailed)
	}
	return nil
}
