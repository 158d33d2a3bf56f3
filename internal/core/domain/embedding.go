package domain

import "time"

// Embedding is a vector representation of one chunk under one named model.
// At most one embedding exists per (chunk, model) pair. Embeddings weakly
// reference their chunk: deleting a chunk cascades to its embeddings, and
// reindexing deletes and recreates them wholesale for a model.
type Embedding struct {
	// ID is the unique identifier for the embedding.
	ID string

	// TenantID scopes the embedding to one tenant.
	TenantID string

	// ChunkID links to the embedded chunk.
	ChunkID string

	// DocumentID links to the chunk's document.
	// Denormalised so candidate scans can filter without joins.
	DocumentID string

	// SourceID links to the document's source.
	// Denormalised so candidate scans can filter without joins.
	SourceID string

	// Model is the embedding model name that produced the vector.
	Model string

	// Dimensions is the vector length; it must match the model's
	// declared dimension.
	Dimensions int

	// Vector is the embedding itself.
	Vector []float32

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the embedding was generated.
	CreatedAt time.Time
}
