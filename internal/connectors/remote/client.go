// Package remote implements the generic REST federation client. It
// talks to any external search endpoint that accepts a JSON query and
// returns a flat result list, which covers the in-house systems that
// expose a search API but have no dedicated connector.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sony/gobreaker"

	"github.com/aldrinstellus/worksearch/internal/connectors"
	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ConnectorClient = (*Client)(nil)

// DefaultTimeout bounds a single HTTP request to the remote system.
const DefaultTimeout = 10 * time.Second

// Config holds the settings for one remote federation endpoint.
type Config struct {
	// Name identifies the connector in results and logs.
	Name string

	// Endpoint is the full URL of the remote search API.
	Endpoint string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RateLimit bounds the outbound request rate.
	RateLimit connectors.RateLimitConfig

	// RetryAttempts bounds transient-failure retries. Zero means 2.
	RetryAttempts uint
}

// Client queries a remote search endpoint. Repeated failures trip a
// circuit breaker so a dead endpoint stops consuming request budget.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *connectors.RateLimiter
	breaker *gobreaker.CircuitBreaker
}

// searchRequest is the wire format sent to the remote endpoint.
type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// searchResponse is the wire format returned by the remote endpoint.
type searchResponse struct {
	Results []remoteResult `json:"results"`
}

type remoteResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt,omitempty"`
	ContentType string  `json:"contentType,omitempty"`
	Score       float64 `json:"score,omitempty"`
	URL         string  `json:"url,omitempty"`
}

// NewClient creates a remote federation client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("connector name is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("connector endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 2
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("connector %s circuit %s -> %s", name, from, to)
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: connectors.NewRateLimiter(cfg.RateLimit),
		breaker: breaker,
	}, nil
}

// Name identifies the connector.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Query sends the search to the remote endpoint and normalises its
// results into candidates.
func (c *Client) Query(ctx context.Context, text string, limit int) ([]domain.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (any, error) {
		return c.search(ctx, text, limit)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: %s circuit open", domain.ErrRateLimited, c.cfg.Name)
		}
		return nil, err
	}

	resp := out.(*searchResponse)
	return c.candidates(resp.Results), nil
}

// search performs the HTTP round trip with retries on transient errors.
func (c *Client) search(ctx context.Context, text string, limit int) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{Query: text, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	var out searchResponse
	err = retry.Do(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost,
				c.cfg.Endpoint, bytes.NewReader(body))
			if reqErr != nil {
				return retry.Unrecoverable(reqErr)
			}
			req.Header.Set("Content-Type", "application/json")
			if c.cfg.APIKey != "" {
				req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
			}

			resp, reqErr := c.http.Do(req)
			if reqErr != nil {
				return reqErr
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				c.limiter.RecordRateLimitError(retryAfter(resp))
				return retry.Unrecoverable(
					fmt.Errorf("%w: %s", domain.ErrRateLimited, c.cfg.Name))
			case resp.StatusCode >= 500:
				return fmt.Errorf("remote returned %d", resp.StatusCode)
			case resp.StatusCode != http.StatusOK:
				return retry.Unrecoverable(
					fmt.Errorf("remote returned %d", resp.StatusCode))
			}

			out = searchResponse{}
			if decErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); decErr != nil {
				return fmt.Errorf("decoding response: %w", decErr)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.RetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.cfg.Name, err)
	}
	return &out, nil
}

// candidates converts remote results, deriving a rank-based score when
// the remote system reports none.
func (c *Client) candidates(results []remoteResult) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(results))
	for rank, r := range results {
		score := r.Score
		if score <= 0 || score > 1 {
			score = rankScore(rank, len(results))
		}

		contentType := r.ContentType
		if contentType == "" {
			contentType = "external"
		}

		var meta map[string]any
		if r.URL != "" {
			meta = map[string]any{"url": r.URL}
		}

		out = append(out, domain.Candidate{
			SourceID:    r.ID,
			Title:       r.Title,
			Excerpt:     r.Excerpt,
			ContentType: contentType,
			RawScore:    score,
			NativeRank:  rank,
			Metadata:    meta,
		})
	}
	return out
}

// rankScore maps a 0-based rank to a linearly decaying score in (0,1].
func rankScore(rank, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-rank) / float64(total)
}

// retryAfter parses the Retry-After header, in seconds.
func retryAfter(resp *http.Response) int {
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil {
		return 0
	}
	return seconds
}

// Close releases resources.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
