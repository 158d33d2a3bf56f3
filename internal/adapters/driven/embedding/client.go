package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// DefaultBatchSize is how many inputs are sent per provider call.
// Hosted APIs accept far larger batches but 100 keeps request bodies
// small enough that a single failure does not lose much work.
const DefaultBatchSize = 100

// Config assembles a Client around a raw provider.
type Config struct {
	// Provider is the backend that produces vectors. Required.
	Provider driven.EmbeddingService

	// Cache short-circuits provider calls for previously seen text.
	// Optional.
	Cache driven.EmbeddingCache

	// Limiter throttles provider calls. Optional.
	Limiter *rate.Limiter

	// BatchSize overrides DefaultBatchSize when positive.
	BatchSize int

	// MaxInputWords overrides DefaultMaxInputWords when positive.
	MaxInputWords int

	// Retry overrides DefaultRetryPolicy when MaxAttempts is positive.
	Retry RetryPolicy
}

// Client implements driven.EmbeddingService on top of a provider,
// adding sanitisation, batching, caching, rate limiting and retries.
// Outputs are always positionally aligned with inputs; inputs that
// sanitise to nothing get an empty vector instead of failing the call.
type Client struct {
	provider driven.EmbeddingService
	cache    driven.EmbeddingCache
	limiter  *rate.Limiter
	retry    RetryPolicy

	batchSize int
	maxWords  int
}

var _ driven.EmbeddingService = (*Client)(nil)

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.Provider == nil {
		return nil, domain.NewValidationError("provider", "embedding provider is required")
	}
	c := &Client{
		provider:  cfg.Provider,
		cache:     cfg.Cache,
		limiter:   cfg.Limiter,
		retry:     cfg.Retry,
		batchSize: cfg.BatchSize,
		maxWords:  cfg.MaxInputWords,
	}
	if c.batchSize <= 0 {
		c.batchSize = DefaultBatchSize
	}
	if c.maxWords <= 0 {
		c.maxWords = DefaultMaxInputWords
	}
	if c.retry.MaxAttempts < 1 {
		c.retry = DefaultRetryPolicy()
	}
	return c, nil
}

// Embed generates a vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates vectors for texts, preserving input order.
// Texts are sanitised first; empties are assigned empty vectors
// without contacting the provider. The rest go out in fixed-size
// batches, each retried per the policy, and results are scattered
// back to their original positions.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	sanitized := make([]string, len(texts))
	for i, t := range texts {
		sanitized[i] = Sanitize(t, c.maxWords)
	}

	model := c.provider.ModelName()

	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		// Positions in this batch that still need a provider call.
		var pending []int
		for i := start; i < end; i++ {
			if sanitized[i] == "" {
				out[i] = []float32{}
				continue
			}
			if c.cache != nil {
				if vec, ok := c.cache.Get(model, sanitized[i]); ok {
					out[i] = vec
					continue
				}
			}
			pending = append(pending, i)
		}
		if len(pending) == 0 {
			continue
		}

		inputs := make([]string, len(pending))
		for j, i := range pending {
			inputs[j] = sanitized[i]
		}

		vectors, err := c.embedOnce(ctx, inputs)
		if err != nil {
			return nil, err
		}

		for j, i := range pending {
			out[i] = vectors[j]
			if c.cache != nil {
				c.cache.Put(model, sanitized[i], vectors[j])
			}
		}
	}

	return out, nil
}

// embedOnce sends one batch through the limiter and retry policy.
func (c *Client) embedOnce(ctx context.Context, inputs []string) ([][]float32, error) {
	var vectors [][]float32
	err := c.retry.do(ctx, func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		got, err := c.provider.EmbedBatch(ctx, inputs)
		if err != nil {
			return err
		}
		if len(got) != len(inputs) {
			return fmt.Errorf("provider returned %d vectors for %d inputs", len(got), len(inputs))
		}
		vectors = got
		return nil
	})
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		return nil, domain.NewProcessingError("embed",
			fmt.Sprintf("batch of %d failed after %d attempts", len(inputs), c.retry.MaxAttempts), err)
	}
	return vectors, nil
}

// Dimensions reports the provider's vector width.
func (c *Client) Dimensions() int {
	return c.provider.Dimensions()
}

// ModelName reports the provider's model.
func (c *Client) ModelName() string {
	return c.provider.ModelName()
}

// Ping checks provider reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.provider.Ping(ctx)
}

// Close releases the provider. The cache is owned by the caller and is
// closed separately.
func (c *Client) Close() error {
	return c.provider.Close()
}
