package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// EmbeddingFilter narrows which stored embeddings participate in a
// search or listing. TenantID and Model are required; SourceIDs is
// optional and empty means all sources.
type EmbeddingFilter struct {
	// TenantID scopes the operation to one tenant.
	TenantID string

	// Model restricts results to vectors produced by this model.
	// Vectors from other models are never comparable.
	Model string

	// SourceIDs optionally restricts results to specific sources.
	SourceIDs []string
}

// VectorSearcher finds stored embeddings similar to a query vector.
type VectorSearcher interface {
	// Search scores every embedding matching the filter against the
	// query vector and returns hits with similarity >= minSimilarity,
	// ordered by descending similarity. Vectors with mismatched
	// dimensions or zero magnitude score 0 and are filtered out by any
	// positive threshold.
	Search(ctx context.Context, query []float32, filter EmbeddingFilter, minSimilarity float64, limit int) ([]VectorHit, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Embedding is the matched stored embedding.
	Embedding domain.Embedding

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
