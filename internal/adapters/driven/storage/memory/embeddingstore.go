package memory

import (
	"context"
	"sort"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EmbeddingStore = (*Store)(nil)

// SaveEmbeddings stores embeddings, replacing any existing vector for
// the same (chunk, model) pair.
func (s *Store) SaveEmbeddings(_ context.Context, embeddings []domain.Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, emb := range embeddings {
		s.embeddings[embeddingKey(emb.ChunkID, emb.Model)] = emb
	}
	return nil
}

// ListEmbeddings returns all embeddings matching the filter, ordered
// by chunk ID.
func (s *Store) ListEmbeddings(_ context.Context, filter driven.EmbeddingFilter) ([]domain.Embedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var allowed map[string]bool
	if len(filter.SourceIDs) > 0 {
		allowed = make(map[string]bool, len(filter.SourceIDs))
		for _, id := range filter.SourceIDs {
			allowed[id] = true
		}
	}

	result := make([]domain.Embedding, 0)
	for _, emb := range s.embeddings {
		if filter.TenantID != "" && emb.TenantID != filter.TenantID {
			continue
		}
		if filter.Model != "" && emb.Model != filter.Model {
			continue
		}
		if allowed != nil && !allowed[emb.SourceID] {
			continue
		}
		result = append(result, emb)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ChunkID < result[j].ChunkID })
	return result, nil
}

// ListDocumentEmbeddings returns embeddings for one document under one
// model, ordered by chunk ID.
func (s *Store) ListDocumentEmbeddings(_ context.Context, documentID, model string) ([]domain.Embedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Embedding, 0)
	for _, emb := range s.embeddings {
		if emb.DocumentID == documentID && emb.Model == model {
			result = append(result, emb)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ChunkID < result[j].ChunkID })
	return result, nil
}

// DeleteDocumentEmbeddings removes all of a document's embeddings for
// one model and reports how many were removed.
func (s *Store) DeleteDocumentEmbeddings(_ context.Context, documentID, model string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, emb := range s.embeddings {
		if emb.DocumentID == documentID && emb.Model == model {
			delete(s.embeddings, key)
			deleted++
		}
	}
	return deleted, nil
}
