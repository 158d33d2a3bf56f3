package driving

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// SourceService manages source configurations.
type SourceService interface {
	// Add creates a new source and returns it with its generated ID.
	Add(ctx context.Context, source domain.Source) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all sources for a tenant.
	List(ctx context.Context, tenantID string) ([]domain.Source, error)

	// Update modifies an existing source configuration.
	Update(ctx context.Context, source domain.Source) error

	// Remove deletes a source and all data indexed under it.
	Remove(ctx context.Context, id string) error

	// SetStatus transitions a source's lifecycle status, recording the
	// failure message when status is error.
	SetStatus(ctx context.Context, id string, status domain.SourceStatus, lastError string) error

	// RefreshStats recomputes a source's rollup counters from its
	// stored documents and persists them.
	RefreshStats(ctx context.Context, id string) (*domain.Source, error)
}
