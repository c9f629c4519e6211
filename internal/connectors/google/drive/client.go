// Package drive implements the connector client that federates search
// queries to Google Drive full-text search.
package drive

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/aldrinstellus/worksearch/internal/connectors"
	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.ConnectorClient = (*Client)(nil)

// MimeTypeFolder marks Drive folders, which never appear in results.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// driveRateLimit stays below Google's 10 requests/sec/user quota.
var driveRateLimit = connectors.RateLimitConfig{RequestsPerSecond: 8.0, BurstSize: 10}

// listFields limits the response to the fields we surface.
const listFields = "files(id,name,mimeType,description,webViewLink,modifiedTime)"

// Client searches Google Drive by full-text match.
type Client struct {
	svc     *drive.Service
	limiter *connectors.RateLimiter
}

// NewClient creates a Drive connector client from an OAuth token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return newClientWithService(svc), nil
}

func newClientWithService(svc *drive.Service) *Client {
	return &Client{
		svc:     svc,
		limiter: connectors.NewRateLimiter(driveRateLimit),
	}
}

// Name identifies the connector.
func (c *Client) Name() string {
	return "google-drive"
}

// Query runs a Drive full-text search. Drive orders results by its own
// relevance, so scores are derived from rank.
func (c *Client) Query(ctx context.Context, text string, limit int) ([]domain.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 100
	}

	list, err := c.svc.Files.List().
		Q(searchExpression(text)).
		PageSize(int64(limit)).
		Fields(listFields).
		Context(ctx).
		Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == 429 {
			c.limiter.RecordRateLimitError(0)
			return nil, fmt.Errorf("%w: drive search", domain.ErrRateLimited)
		}
		return nil, fmt.Errorf("drive search: %w", err)
	}

	total := len(list.Files)
	candidates := make([]domain.Candidate, 0, total)
	for rank, file := range list.Files {
		if file.MimeType == MimeTypeFolder {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			SourceID:    file.Id,
			Title:       file.Name,
			Excerpt:     file.Description,
			ContentType: "file",
			RawScore:    rankScore(rank, total),
			NativeRank:  rank,
			Metadata: map[string]any{
				"url":          file.WebViewLink,
				"mimeType":     file.MimeType,
				"modifiedTime": file.ModifiedTime,
			},
		})
	}
	return candidates, nil
}

// searchExpression builds the Drive query, escaping single quotes so
// user input cannot break out of the string literal.
func searchExpression(text string) string {
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return fmt.Sprintf("fullText contains '%s' and trashed = false", escaped)
}

// rankScore maps Drive's relevance rank to a linearly decaying score.
func rankScore(rank, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-rank) / float64(total)
}

// Close releases resources.
func (c *Client) Close() error {
	return nil
}
