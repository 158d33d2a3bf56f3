package memory

import (
	"context"
	"sort"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SourceStore = (*Store)(nil)

// SaveSource stores or updates a source.
func (s *Store) SaveSource(_ context.Context, source *domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.ID] = *source
	return nil
}

// GetSource retrieves a source by ID.
func (s *Store) GetSource(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// ListSources returns all sources for a tenant, ordered by name.
func (s *Store) ListSources(_ context.Context, tenantID string) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Source, 0)
	for _, source := range s.sources {
		if source.TenantID == tenantID {
			result = append(result, source)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteSource removes a source and everything indexed under it.
func (s *Store) DeleteSource(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for docID, doc := range s.documents {
		if doc.SourceID == id {
			s.deleteDocumentLocked(docID)
		}
	}
	delete(s.sources, id)
	return nil
}
