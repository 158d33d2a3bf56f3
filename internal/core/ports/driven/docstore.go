package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for durable storage, with an in-memory variant for
// tests.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	// Returns domain.ErrAlreadyExists when inserting a document whose
	// content hash collides with another document of the same tenant.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindByHash looks up a tenant's document by content hash.
	// Returns domain.ErrNotFound when no document matches.
	FindByHash(ctx context.Context, tenantID, contentHash string) (*domain.Document, error)

	// ListDocuments returns documents for a source, ordered by title.
	ListDocuments(ctx context.Context, sourceID string) ([]domain.Document, error)

	// ListTenantDocuments returns all documents for a tenant.
	ListTenantDocuments(ctx context.Context, tenantID string) ([]domain.Document, error)

	// DeleteDocument removes a document, its chunks and its embeddings.
	DeleteDocument(ctx context.Context, id string) error

	// SaveChunks stores chunks for a document, replacing any previous
	// chunk set.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// SourceStats recomputes aggregate counters for a source from the
	// documents currently stored under it.
	SourceStats(ctx context.Context, sourceID string) (domain.SourceStats, error)
}
