// Package openai provides an embedding provider backed by the OpenAI
// embeddings API, or any compatible endpoint via BaseURL.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "text-embedding-3-small"

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// modelDimensions maps hosted models to their native vector widths.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds OpenAI embedding service configuration.
type Config struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// BaseURL overrides the API endpoint, for proxies and compatible
	// providers. Optional.
	BaseURL string

	// Model selects the embedding model. Defaults to DefaultModel.
	Model string

	// Dimensions overrides the output vector width. Only the
	// text-embedding-3 family supports shortened vectors; for other
	// models this is ignored.
	Dimensions int

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// EmbeddingService calls the OpenAI embeddings endpoint.
type EmbeddingService struct {
	client     *goopenai.Client
	model      string
	dimensions int
}

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// NewEmbeddingService creates an OpenAI-backed embedding provider.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewValidationError("api_key", "OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		if d, ok := modelDimensions[model]; ok {
			dimensions = d
		} else {
			dimensions = modelDimensions[DefaultModel]
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &EmbeddingService{
		client:     goopenai.NewClientWithConfig(clientCfg),
		model:      model,
		dimensions: dimensions,
	}, nil
}

// Embed generates an embedding for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
// Results are ordered by the index the API reports, which matches
// input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(s.model),
	}
	// Only the v3 models accept a dimensions override.
	if strings.HasPrefix(s.model, "text-embedding-3") {
		req.Dimensions = s.dimensions
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings request: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("openai returned out-of-range embedding index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// Dimensions returns the configured vector width.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping verifies the API key and endpoint with a model listing, the
// cheapest authenticated call the API offers.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai ping: %w", err)
	}
	return nil
}

// Close releases resources. The underlying HTTP client needs no
// explicit shutdown.
func (s *EmbeddingService) Close() error {
	return nil
}
