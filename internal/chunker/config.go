package chunker

import "github.com/corpora-labs/corpora-cli/internal/core/domain"

const (
	// longDocTokens is the document size at which the chunk budget
	// starts growing proportionally.
	longDocTokens = 10000

	// maxChunkSize caps the grown chunk budget.
	maxChunkSize = 2000
)

// ConfigForFormat tunes a base chunking configuration for the document
// format and size. PDF extractions carry layout noise, so they get
// smaller sentence-preserving chunks; HTML and Markdown have reliable
// paragraph structure and take a larger budget. Very long documents
// get a proportionally larger budget, capped at maxChunkSize.
func ConfigForFormat(base domain.ChunkConfig, format string, totalTokens int) domain.ChunkConfig {
	cfg := base

	switch format {
	case "pdf":
		cfg.ChunkSize = base.ChunkSize * 3 / 5
		cfg.Overlap = base.Overlap * 3 / 5
		cfg.PreserveParagraphs = false
		cfg.PreserveSentences = true
	case "html", "markdown":
		cfg.ChunkSize = base.ChunkSize * 6 / 5
		cfg.PreserveParagraphs = true
	}

	if totalTokens > longDocTokens {
		scaled := cfg.ChunkSize * totalTokens / longDocTokens
		if scaled > maxChunkSize {
			scaled = maxChunkSize
		}
		if scaled > cfg.ChunkSize {
			cfg.ChunkSize = scaled
		}
	}

	// Keep the config valid whatever the arithmetic above produced.
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = 1
	}
	if cfg.Overlap >= cfg.ChunkSize {
		cfg.Overlap = cfg.ChunkSize / 4
	}
	if cfg.MinChunkSize > cfg.ChunkSize {
		cfg.MinChunkSize = cfg.ChunkSize
	}

	return cfg
}
