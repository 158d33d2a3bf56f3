package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// EmbeddingStore persists embedding vectors alongside the chunks they
// were generated from.
type EmbeddingStore interface {
	// SaveEmbeddings stores embeddings, replacing any existing vector
	// for the same (chunk, model) pair.
	SaveEmbeddings(ctx context.Context, embeddings []domain.Embedding) error

	// ListEmbeddings returns all embeddings matching the filter.
	ListEmbeddings(ctx context.Context, filter EmbeddingFilter) ([]domain.Embedding, error)

	// ListDocumentEmbeddings returns embeddings for one document under
	// one model. Used for idempotency checks during ingestion.
	ListDocumentEmbeddings(ctx context.Context, documentID, model string) ([]domain.Embedding, error)

	// DeleteDocumentEmbeddings removes all of a document's embeddings
	// for one model and reports how many were removed.
	DeleteDocumentEmbeddings(ctx context.Context, documentID, model string) (int, error)
}
