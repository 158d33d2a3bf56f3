package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Chunker splits extracted text into token-bounded chunks.
//
// Chunks come back in document order with dense 0-based positions,
// IsFirst/IsLast flags set, and overlap bookkeeping filled in. An empty
// or whitespace-only text yields an empty slice, not an error.
type Chunker interface {
	// Chunk splits text belonging to documentID according to cfg.
	// Returns a domain.ValidationError when cfg is inconsistent.
	Chunk(ctx context.Context, documentID, text string, cfg domain.ChunkConfig) ([]domain.Chunk, error)
}
