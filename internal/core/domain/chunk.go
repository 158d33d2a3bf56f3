package domain

// ChunkStrategy identifies how a chunk's boundaries were chosen.
type ChunkStrategy string

// Available chunking strategies, from most to least structure-preserving.
const (
	// StrategyParagraph packs whole paragraphs up to the token budget.
	StrategyParagraph ChunkStrategy = "paragraph"

	// StrategySentence packs whole sentences up to the token budget.
	StrategySentence ChunkStrategy = "sentence"

	// StrategyTokenWindow slides a fixed-size token window with overlap.
	StrategyTokenWindow ChunkStrategy = "token_window"
)

// Chunk is a contiguous, token-bounded slice of a document's content.
// Positions are dense and 0-based within a document; adjacent chunks
// share OverlapStart/OverlapEnd tokens of context with their neighbours.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the 0-based ordinal position within the document.
	// Positions are dense: dropped chunks close the gap.
	Position int

	// TokenCount is the approximate token count of Content.
	TokenCount int

	// OverlapStart is the number of tokens at the start of this chunk
	// shared with the previous chunk. Always 0 for the first chunk and
	// strictly less than TokenCount.
	OverlapStart int

	// OverlapEnd is the number of tokens at the end of this chunk
	// shared with the next chunk. Always 0 for the last chunk.
	OverlapEnd int

	// Strategy records how this chunk's boundaries were chosen.
	Strategy ChunkStrategy

	// IsFirst marks the first chunk of the document.
	IsFirst bool

	// IsLast marks the last chunk of the document.
	IsLast bool
}

// ChunkConfig controls how a document is split into chunks.
type ChunkConfig struct {
	// ChunkSize is the target chunk size in approximate tokens.
	ChunkSize int

	// Overlap is the number of tokens carried over from the end of one
	// chunk into the start of the next.
	Overlap int

	// MinChunkSize is the minimum token count for a standalone chunk.
	// Shorter trailing chunks are merged into their predecessor.
	MinChunkSize int

	// PreserveParagraphs keeps paragraph boundaries intact where possible.
	PreserveParagraphs bool

	// PreserveSentences keeps sentence boundaries intact where possible.
	PreserveSentences bool
}

// DefaultChunkConfig returns the chunking configuration used when a
// caller does not override it.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:          1000,
		Overlap:            200,
		MinChunkSize:       50,
		PreserveParagraphs: true,
		PreserveSentences:  true,
	}
}

// Strategy returns the chunking strategy implied by the config flags.
// Paragraph preservation takes precedence over sentence preservation.
func (c ChunkConfig) Strategy() ChunkStrategy {
	switch {
	case c.PreserveParagraphs:
		return StrategyParagraph
	case c.PreserveSentences:
		return StrategySentence
	default:
		return StrategyTokenWindow
	}
}

// Validate checks the configuration for internal consistency.
func (c ChunkConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return &ValidationError{Field: "chunkSize", Reason: "must be positive"}
	}
	if c.Overlap < 0 {
		return &ValidationError{Field: "overlap", Reason: "must not be negative"}
	}
	if c.Overlap >= c.ChunkSize {
		return &ValidationError{Field: "overlap", Reason: "must be smaller than chunkSize"}
	}
	if c.MinChunkSize < 0 {
		return &ValidationError{Field: "minChunkSize", Reason: "must not be negative"}
	}
	if c.MinChunkSize > c.ChunkSize {
		return &ValidationError{Field: "minChunkSize", Reason: "must not exceed chunkSize"}
	}
	return nil
}
