package driving

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// KnowledgeService runs the ingestion and query pipelines.
type KnowledgeService interface {
	// Ingest extracts, deduplicates, chunks, embeds and persists one
	// document. On a content-hash match the existing document is
	// returned and nothing new is written.
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)

	// Query answers a free-text question with ranked, cited results.
	// Falls back to lexical matching when vector search is unavailable
	// or returns no candidates.
	Query(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.QueryResult, error)

	// Reindex rebuilds embeddings for the requested scope under the
	// requested model, deleting stale vectors before recreating them.
	Reindex(ctx context.Context, req domain.ReindexRequest) (*domain.ReindexResult, error)

	// Capabilities reports supported formats and embedding status.
	Capabilities(ctx context.Context) domain.Capabilities
}
