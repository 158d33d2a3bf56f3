package vector

import (
	"context"
	"fmt"
	"sort"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Scanner implements driven.VectorSearcher by scoring every candidate
// embedding against the query. Candidates are narrowed by the store
// filter first, so the scan covers one tenant and model at most.
type Scanner struct {
	store driven.EmbeddingStore
}

var _ driven.VectorSearcher = (*Scanner)(nil)

// NewScanner creates a Scanner over the given embedding store.
func NewScanner(store driven.EmbeddingStore) *Scanner {
	return &Scanner{store: store}
}

// Search scores candidates with cosine similarity and returns hits at
// or above minSimilarity, best first. Ties order by chunk ID so
// results are stable across runs.
func (s *Scanner) Search(ctx context.Context, query []float32, filter driven.EmbeddingFilter, minSimilarity float64, limit int) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, domain.NewValidationError("query", "query vector is required")
	}
	if filter.TenantID == "" {
		return nil, domain.NewValidationError("tenant_id", "tenant is required")
	}
	if filter.Model == "" {
		return nil, domain.NewValidationError("model", "model is required")
	}
	if limit <= 0 {
		return nil, domain.NewValidationError("limit", "limit must be positive")
	}

	candidates, err := s.store.ListEmbeddings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing embeddings: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(candidates))
	for _, emb := range candidates {
		similarity := Cosine(query, emb.Vector)
		if similarity < minSimilarity {
			continue
		}
		hits = append(hits, driven.VectorHit{Embedding: emb, Similarity: similarity})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Embedding.ChunkID < hits[j].Embedding.ChunkID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
