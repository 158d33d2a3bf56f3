package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore   driven.SourceStore
	docStore      driven.DocumentStore
	defaultTenant string
}

// NewSourceService creates a new source service.
func NewSourceService(sourceStore driven.SourceStore, docStore driven.DocumentStore) *SourceService {
	return &SourceService{
		sourceStore:   sourceStore,
		docStore:      docStore,
		defaultTenant: "default",
	}
}

// SetDefaultTenant sets the tenant used when sources leave it empty.
func (s *SourceService) SetDefaultTenant(tenantID string) {
	if tenantID != "" {
		s.defaultTenant = tenantID
	}
}

// Add creates a new source and returns it with its generated ID.
func (s *SourceService) Add(ctx context.Context, source domain.Source) (*domain.Source, error) {
	if source.TenantID == "" {
		source.TenantID = s.defaultTenant
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}

	if source.ID == "" {
		source.ID = uuid.New().String()
	}
	if source.Status == "" {
		source.Status = domain.SourceStatusPending
	}
	now := time.Now()
	source.CreatedAt = now
	source.UpdatedAt = now

	if err := s.sourceStore.SaveSource(ctx, &source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}
	return &source, nil
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	return s.sourceStore.GetSource(ctx, id)
}

// List returns all sources for a tenant.
func (s *SourceService) List(ctx context.Context, tenantID string) ([]domain.Source, error) {
	if tenantID == "" {
		tenantID = s.defaultTenant
	}
	return s.sourceStore.ListSources(ctx, tenantID)
}

// Update modifies an existing source configuration. Creation time and
// rollup stats are owned by the service and survive the update.
func (s *SourceService) Update(ctx context.Context, source domain.Source) error {
	if source.ID == "" {
		return domain.NewValidationError("id", "id is required")
	}

	existing, err := s.sourceStore.GetSource(ctx, source.ID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	if source.TenantID == "" {
		source.TenantID = existing.TenantID
	}
	if err := source.Validate(); err != nil {
		return err
	}

	source.CreatedAt = existing.CreatedAt
	source.Stats = existing.Stats
	source.UpdatedAt = time.Now()

	if err := s.sourceStore.SaveSource(ctx, &source); err != nil {
		return fmt.Errorf("save source: %w", err)
	}
	return nil
}

// Remove deletes a source. The store cascades to documents, chunks and
// embeddings.
func (s *SourceService) Remove(ctx context.Context, id string) error {
	return s.sourceStore.DeleteSource(ctx, id)
}

// SetStatus transitions a source's lifecycle status. The failure
// message is kept only while the status is error.
func (s *SourceService) SetStatus(ctx context.Context, id string, status domain.SourceStatus, lastError string) error {
	if !status.IsValid() {
		return domain.NewValidationError("status", "unknown status "+string(status))
	}

	source, err := s.sourceStore.GetSource(ctx, id)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	source.Status = status
	if status == domain.SourceStatusError {
		source.LastError = lastError
	} else {
		source.LastError = ""
	}
	source.UpdatedAt = time.Now()

	if err := s.sourceStore.SaveSource(ctx, source); err != nil {
		return fmt.Errorf("save source: %w", err)
	}
	return nil
}

// RefreshStats recomputes a source's rollup counters from its stored
// documents and persists them.
func (s *SourceService) RefreshStats(ctx context.Context, id string) (*domain.Source, error) {
	source, err := s.sourceStore.GetSource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}

	stats, err := s.docStore.SourceStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("source stats: %w", err)
	}

	source.Stats = stats
	source.UpdatedAt = time.Now()
	if err := s.sourceStore.SaveSource(ctx, source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}
	return source, nil
}
