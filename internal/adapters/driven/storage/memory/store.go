// Package memory provides in-memory store implementations.
//
// The Store backs tests and ephemeral runs; durable deployments use
// the sqlite package. One Store implements the source, document and
// embedding store ports so cascading deletes stay consistent without
// cross-store coordination.
package memory

import (
	"sort"
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Store holds all persisted entities in maps guarded by one mutex.
type Store struct {
	mu         sync.RWMutex
	sources    map[string]domain.Source
	documents  map[string]domain.Document
	chunks     map[string][]domain.Chunk   // keyed by document ID
	embeddings map[string]domain.Embedding // keyed by chunk ID + model
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sources:    make(map[string]domain.Source),
		documents:  make(map[string]domain.Document),
		chunks:     make(map[string][]domain.Chunk),
		embeddings: make(map[string]domain.Embedding),
	}
}

// embeddingKey identifies the single vector stored per (chunk, model).
func embeddingKey(chunkID, model string) string {
	return chunkID + "\x00" + model
}

// deleteDocumentLocked removes a document with its chunks and
// embeddings. Caller holds the write lock.
func (s *Store) deleteDocumentLocked(id string) {
	delete(s.documents, id)
	delete(s.chunks, id)
	for key, emb := range s.embeddings {
		if emb.DocumentID == id {
			delete(s.embeddings, key)
		}
	}
}

// sortDocuments orders documents by title with ID as tie-break so
// listings are deterministic.
func sortDocuments(docs []domain.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Title != docs[j].Title {
			return docs[i].Title < docs[j].Title
		}
		return docs[i].ID < docs[j].ID
	})
}
