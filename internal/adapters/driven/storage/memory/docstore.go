package memory

import (
	"context"
	"sort"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// SaveDocument stores or updates a document. Inserting a document
// whose content hash matches another document of the same tenant
// returns domain.ErrAlreadyExists.
func (s *Store) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ContentHash != "" {
		for _, other := range s.documents {
			if other.ID != doc.ID && other.TenantID == doc.TenantID && other.ContentHash == doc.ContentHash {
				return domain.ErrAlreadyExists
			}
		}
	}
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// FindByHash looks up a tenant's document by content hash.
func (s *Store) FindByHash(_ context.Context, tenantID, contentHash string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.TenantID == tenantID && doc.ContentHash == contentHash {
			found := doc
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns documents for a source, ordered by title.
func (s *Store) ListDocuments(_ context.Context, sourceID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0)
	for _, doc := range s.documents {
		if doc.SourceID == sourceID {
			result = append(result, doc)
		}
	}
	sortDocuments(result)
	return result, nil
}

// ListTenantDocuments returns all documents for a tenant, ordered by
// title.
func (s *Store) ListTenantDocuments(_ context.Context, tenantID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0)
	for _, doc := range s.documents {
		if doc.TenantID == tenantID {
			result = append(result, doc)
		}
	}
	sortDocuments(result)
	return result, nil
}

// DeleteDocument removes a document, its chunks and its embeddings.
func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteDocumentLocked(id)
	return nil
}

// SaveChunks stores chunks for a document, replacing any previous
// chunk set.
func (s *Store) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := chunks[0].DocumentID
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	s.chunks[docID] = stored
	return nil
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (s *Store) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	result := make([]domain.Chunk, len(stored))
	copy(result, stored)
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *Store) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				found := chunk
				return &found, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// SourceStats recomputes aggregate counters for a source from the
// documents currently stored under it.
func (s *Store) SourceStats(_ context.Context, sourceID string) (domain.SourceStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats domain.SourceStats
	for _, doc := range s.documents {
		if doc.SourceID != sourceID {
			continue
		}
		stats.DocumentCount++
		stats.TokenCount += doc.TokenCount
		stats.ChunkCount += len(s.chunks[doc.ID])
	}
	return stats, nil
}
