package domain

import "time"

// SourceKind identifies what a source ingests.
type SourceKind string

// Available source kinds.
const (
	// SourceKindDocument is a collection of uploaded files.
	SourceKindDocument SourceKind = "document"

	// SourceKindURL is a crawlable web location.
	SourceKindURL SourceKind = "url"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	return k == SourceKindDocument || k == SourceKindURL
}

// SourceStatus tracks where a source is in its ingestion lifecycle.
type SourceStatus string

// Available source statuses. Within one ingestion run transitions are
// monotone: pending -> processing -> completed or error.
const (
	// SourceStatusPending means the source is created but not yet processed.
	SourceStatusPending SourceStatus = "pending"

	// SourceStatusProcessing means an ingestion run is underway.
	SourceStatusProcessing SourceStatus = "processing"

	// SourceStatusCompleted means the last ingestion run succeeded.
	SourceStatusCompleted SourceStatus = "completed"

	// SourceStatusError means the last ingestion run failed.
	SourceStatusError SourceStatus = "error"

	// SourceStatusDisabled means the source is excluded from ingestion.
	SourceStatusDisabled SourceStatus = "disabled"
)

// IsValid returns true if the source status is recognised.
func (s SourceStatus) IsValid() bool {
	switch s {
	case SourceStatusPending, SourceStatusProcessing, SourceStatusCompleted,
		SourceStatusError, SourceStatusDisabled:
		return true
	default:
		return false
	}
}

// CrawlConfig holds crawling parameters for URL sources.
type CrawlConfig struct {
	// URL is the address to fetch. Required for URL sources.
	URL string

	// Frequency is how often the source should be re-crawled.
	// Zero means crawl on demand only.
	Frequency time.Duration

	// MaxDepth limits how many links deep a crawl may follow.
	MaxDepth int
}

// SourceStats holds rollup counters for a source.
// Counters are recomputed from child entities after every mutation,
// never incrementally adjusted, so they cannot drift.
type SourceStats struct {
	// DocumentCount is the number of documents under this source.
	DocumentCount int

	// ChunkCount is the number of chunks across all documents.
	ChunkCount int

	// TokenCount is the sum of token counts across all documents.
	TokenCount int
}

// Source represents a named origin of ingested content.
// Each source belongs to a tenant and exclusively owns its documents;
// deleting a source cascades to documents, chunks and embeddings.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// TenantID scopes the source to one tenant.
	TenantID string

	// Name is the human-readable name for this source.
	Name string

	// Kind identifies what the source ingests (document or url).
	Kind SourceKind

	// Status tracks the ingestion lifecycle.
	Status SourceStatus

	// LastError records the failure message from the last errored run.
	LastError string

	// Crawl holds crawl parameters for URL sources.
	Crawl CrawlConfig

	// Stats holds rollup counters recomputed from child entities.
	Stats SourceStats

	// Tags are free-form labels for filtering and display.
	Tags []string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// Validate checks that the source is well formed enough to persist.
func (s *Source) Validate() error {
	if s.TenantID == "" {
		return &ValidationError{Field: "tenantId", Reason: "must not be empty"}
	}
	if s.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !s.Kind.IsValid() {
		return &ValidationError{Field: "kind", Reason: "unknown kind " + string(s.Kind)}
	}
	if s.Kind == SourceKindURL && s.Crawl.URL == "" {
		return &ValidationError{Field: "crawl.url", Reason: "required for url sources"}
	}
	if s.Status != "" && !s.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(s.Status)}
	}
	return nil
}
