package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// SourceStore persists source configurations.
type SourceStore interface {
	// SaveSource stores or updates a source.
	SaveSource(ctx context.Context, source *domain.Source) error

	// GetSource retrieves a source by ID.
	// Returns domain.ErrNotFound if the source doesn't exist.
	GetSource(ctx context.Context, id string) (*domain.Source, error)

	// ListSources returns all sources for a tenant, ordered by name.
	ListSources(ctx context.Context, tenantID string) ([]domain.Source, error)

	// DeleteSource removes a source. Documents, chunks and embeddings
	// belonging to the source are removed with it.
	DeleteSource(ctx context.Context, id string) error
}
