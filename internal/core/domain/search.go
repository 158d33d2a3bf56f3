package domain

// SearchMode records which retrieval path produced a result set.
type SearchMode string

// Available search modes.
const (
	// SearchModeVector means results came from embedding similarity.
	SearchModeVector SearchMode = "vector"

	// SearchModeTextFallback means vector search was unavailable or
	// empty and results came from lexical matching.
	SearchModeTextFallback SearchMode = "text_fallback"
)

// QueryOptions configures a knowledge-base query.
type QueryOptions struct {
	// TenantID scopes the query to one tenant.
	TenantID string

	// Model selects the embedding model to query under.
	// Empty selects the configured default model.
	Model string

	// SourceIDs restricts results to specific sources when non-empty.
	SourceIDs []string

	// Limit is the maximum number of results. Defaults to 10.
	Limit int

	// MinSimilarity is the cosine similarity floor for vector
	// candidates, in [0, 1].
	MinSimilarity float64
}

// QueryResult is a single ranked hit from a knowledge-base query.
type QueryResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// DocumentID identifies the matched chunk's document.
	DocumentID string

	// Content is the full chunk content.
	Content string

	// ContentPreview is a truncated rendering of Content for display.
	ContentPreview string

	// SimilarityScore is the raw cosine similarity in [-1, 1].
	// Zero for lexical fallback results.
	SimilarityScore float64

	// RelevanceScore is the combined ranking score in [0, 1].
	RelevanceScore float64

	// Citation carries the provenance record for this hit.
	Citation Citation

	// Metadata always states the search mode ("vector" or
	// "text_fallback") and the embedding model used.
	Metadata map[string]any
}

// IngestResult reports what one ingestion call produced.
type IngestResult struct {
	// Document is the created document, or the pre-existing one when
	// deduplication short-circuited the ingestion.
	Document *Document

	// Deduplicated is true when an existing document with the same
	// content hash was found and no new document was created.
	Deduplicated bool

	// ChunksCreated is the number of chunks persisted.
	ChunksCreated int

	// EmbeddingsCreated is the number of embeddings generated.
	EmbeddingsCreated int
}

// ReindexResult reports what a reindexing run did.
type ReindexResult struct {
	// DocumentsProcessed is the number of documents visited.
	DocumentsProcessed int

	// EmbeddingsCreated is the number of embeddings generated for
	// chunks that had none under the model before the run.
	EmbeddingsCreated int

	// EmbeddingsUpdated is the number of embeddings that were deleted
	// and recreated.
	EmbeddingsUpdated int
}
