package domain

// IngestRequest describes one document submitted for ingestion.
// Exactly one of Data or URL must be set: Data carries uploaded file
// bytes, URL points at a remote document to fetch.
type IngestRequest struct {
	// TenantID scopes the ingestion. Empty selects the default tenant.
	TenantID string

	// SourceID is the source the document belongs to.
	SourceID string

	// FileName is the original file name for uploaded documents.
	FileName string

	// MediaType is the declared content type, if known.
	MediaType string

	// URL is the remote address to fetch for URL ingestion.
	URL string

	// Data is the raw document content for direct ingestion.
	Data []byte

	// Title optionally overrides the extracted title.
	Title string

	// Chunking overrides the configured chunking parameters when
	// non-nil.
	Chunking *ChunkConfig
}

// ReindexRequest describes a re-embedding run.
type ReindexRequest struct {
	// TenantID scopes the run. Empty selects the default tenant.
	TenantID string

	// SourceIDs restricts the run to specific sources when non-empty.
	SourceIDs []string

	// Model is the embedding model to rebuild under. Empty selects the
	// configured default model.
	Model string
}

// Capabilities reports what the running pipeline can do.
type Capabilities struct {
	// Formats maps each supported document format to whether it can be
	// extracted right now. Formats backed by missing external tools map
	// to false.
	Formats map[string]bool

	// EmbeddingModel names the active embedding model, or empty when
	// embedding is not configured.
	EmbeddingModel string

	// EmbeddingDimensions is the vector size of the active model, or
	// zero when embedding is not configured.
	EmbeddingDimensions int

	// VectorSearch is true when queries can use similarity search.
	VectorSearch bool
}
