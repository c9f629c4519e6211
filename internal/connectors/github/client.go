// Package github implements the connector client that federates search
// queries to GitHub issue search.
package github

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/aldrinstellus/worksearch/internal/connectors"
	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.ConnectorClient = (*Client)(nil)

// DefaultTimeout is the HTTP request timeout for GitHub API calls.
const DefaultTimeout = 30 * time.Second

// searchRateLimit mirrors GitHub's search API quota, which is far
// tighter than the core API quota (30 requests/minute authenticated).
var searchRateLimit = connectors.RateLimitConfig{RequestsPerSecond: 0.5, BurstSize: 3}

// Config holds GitHub connector settings.
type Config struct {
	// Token is a personal access token.
	Token string

	// Org restricts the search to one organisation when set.
	Org string

	// Repo restricts the search to one "owner/name" repository when set.
	Repo string
}

// Client searches GitHub issues and pull requests.
type Client struct {
	gh      *gh.Client
	cfg     Config
	limiter *connectors.RateLimiter
}

// NewClient creates a GitHub connector client with a static token.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:      gh.NewClient(tc),
		cfg:     cfg,
		limiter: connectors.NewRateLimiter(searchRateLimit),
	}, nil
}

// Name identifies the connector.
func (c *Client) Name() string {
	return "github"
}

// Query searches issues and pull requests, deriving scores from
// GitHub's own best-match ordering.
func (c *Client) Query(ctx context.Context, text string, limit int) ([]domain.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 100
	}

	result, _, err := c.gh.Search.Issues(ctx, c.searchQuery(text), &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	if err != nil {
		var rateErr *gh.RateLimitError
		if errors.As(err, &rateErr) {
			c.limiter.RecordRateLimitError(int(time.Until(rateErr.Rate.Reset.Time).Seconds()))
			return nil, fmt.Errorf("%w: github search", domain.ErrRateLimited)
		}
		return nil, fmt.Errorf("github search: %w", err)
	}

	total := len(result.Issues)
	candidates := make([]domain.Candidate, 0, total)
	for rank, issue := range result.Issues {
		if rank >= limit {
			break
		}
		candidates = append(candidates, c.candidate(issue, rank, total))
	}
	return candidates, nil
}

// searchQuery builds the GitHub search expression with the configured
// org or repo qualifier.
func (c *Client) searchQuery(text string) string {
	var b strings.Builder
	b.WriteString(text)
	b.WriteString(" in:title,body")
	if c.cfg.Repo != "" {
		b.WriteString(" repo:" + c.cfg.Repo)
	} else if c.cfg.Org != "" {
		b.WriteString(" org:" + c.cfg.Org)
	}
	return b.String()
}

func (c *Client) candidate(issue *gh.Issue, rank, total int) domain.Candidate {
	contentType := "issue"
	if issue.IsPullRequest() {
		contentType = "pull_request"
	}

	meta := map[string]any{
		"url":   issue.GetHTMLURL(),
		"state": issue.GetState(),
	}
	if repo := issue.GetRepositoryURL(); repo != "" {
		meta["repository"] = repo
	}

	return domain.Candidate{
		SourceID:    strconv.FormatInt(issue.GetID(), 10),
		Title:       issue.GetTitle(),
		Excerpt:     truncate(issue.GetBody(), 160),
		ContentType: contentType,
		RawScore:    rankScore(rank, total),
		NativeRank:  rank,
		Metadata:    meta,
	}
}

// rankScore maps GitHub's best-match rank to a linearly decaying score.
func rankScore(rank, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-rank) / float64(total)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	end := max
	for end > 0 && s[end]&0xC0 == 0x80 {
		end--
	}
	return s[:end] + "…"
}

// Close releases resources.
func (c *Client) Close() error {
	return nil
}
