// Package openai provides an embedding service backed by the OpenAI
// embeddings API, or any OpenAI-compatible inference server.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/sashabaranov/go-openai"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// Config holds the embedding client settings.
type Config struct {
	// APIKey authenticates against the API. Required for openai.com,
	// often ignored by local inference servers.
	APIKey string

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	// Empty means api.openai.com.
	BaseURL string

	// Model is the embedding model name, e.g. text-embedding-3-small.
	Model string

	// Dimensions is the expected vector size for the model.
	Dimensions int

	// RetryAttempts bounds transient-failure retries. Zero means 3.
	RetryAttempts uint
}

// Service generates embeddings via the OpenAI embeddings endpoint.
type Service struct {
	client *openai.Client
	cfg    Config
}

// NewService creates an embedding service from the given config.
func NewService(cfg Config) (*Service, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	var resp openai.EmbeddingResponse

	err := retry.Do(
		func() error {
			var reqErr error
			resp, reqErr = s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
				Model: openai.EmbeddingModel(s.cfg.Model),
				Input: texts,
			})
			return reqErr
		},
		retry.Context(ctx),
		retry.Attempts(s.cfg.RetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("retrying embedding request (attempt %d): %v", n+1, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			domain.ErrEmbeddingUnavailable, len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: embedding index %d out of range",
				domain.ErrEmbeddingUnavailable, d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	logger.Debug("generated %d embeddings with %s in %s", len(texts), s.cfg.Model, time.Since(start))
	return vectors, nil
}

// Dimensions returns the configured embedding vector size.
func (s *Service) Dimensions() int {
	return s.cfg.Dimensions
}

// ModelName returns the embedding model name.
func (s *Service) ModelName() string {
	return s.cfg.Model
}

// Ping validates the endpoint with a minimal embedding request.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.cfg.Model),
		Input: []string{"ping"},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// Close releases resources. The underlying HTTP client needs none.
func (s *Service) Close() error {
	return nil
}
