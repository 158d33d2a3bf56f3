package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DocumentStatus tracks a document's processing lifecycle.
type DocumentStatus string

// Available document statuses.
const (
	// DocumentStatusPending means the document is created but not chunked.
	DocumentStatusPending DocumentStatus = "pending"

	// DocumentStatusProcessing means chunking/embedding is underway.
	DocumentStatusProcessing DocumentStatus = "processing"

	// DocumentStatusCompleted means chunks are persisted.
	DocumentStatusCompleted DocumentStatus = "completed"

	// DocumentStatusError means processing failed.
	DocumentStatusError DocumentStatus = "error"
)

// IsValid returns true if the document status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusProcessing,
		DocumentStatusCompleted, DocumentStatusError:
		return true
	default:
		return false
	}
}

// DocumentOrigin describes where a document's bytes came from.
type DocumentOrigin struct {
	// FileName is the original file name for uploaded documents.
	FileName string

	// FileSize is the raw size in bytes.
	FileSize int64

	// MediaType is the declared or detected content type.
	MediaType string

	// URL is the fetch location for crawled documents.
	URL string
}

// Document represents one ingested unit of text.
// It is owned by exactly one Source and owns its Chunks.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// TenantID scopes the document to one tenant.
	TenantID string

	// SourceID links to the Source that produced this document.
	SourceID string

	// Title is the human-readable title.
	Title string

	// Content is the full normalised text before chunking.
	Content string

	// ContentHash is the deterministic digest of the normalised content.
	// It is unique per tenant and drives ingestion deduplication.
	ContentHash string

	// Origin describes where the document's bytes came from.
	Origin DocumentOrigin

	// TokenCount is the approximate token count of Content.
	TokenCount int

	// Status tracks the processing lifecycle.
	Status DocumentStatus

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// HashContent computes the deterministic content hash used for
// deduplication. The content is normalised (trimmed, CRLF folded to LF)
// before hashing so byte-identical text always produces the same digest
// regardless of platform line endings.
func HashContent(content string) string {
	normalised := strings.ReplaceAll(content, "\r\n", "\n")
	normalised = strings.TrimSpace(normalised)
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:])
}
