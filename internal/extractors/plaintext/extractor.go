package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/token"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents. It is the fallback for any
// text-like format without a dedicated extractor.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the media types and extensions this extractor handles.
func (e *Extractor) Formats() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"text/toml",
		"text/javascript",
		"text/css",
		"application/json",
		"application/xml",
		".txt",
		".text",
		".log",
		".csv",
		".tsv",
		".json",
		".yaml",
		".yml",
		".toml",
		".xml",
		".go",
		".py",
		".rs",
		".java",
		".c",
		".h",
		".js",
		".ts",
		".sh",
		".sql",
	}
}

// Available reports whether the extractor can run. Plain text has no
// external dependencies.
func (e *Extractor) Available() bool {
	return true
}

// Extract converts raw bytes to plain text. Line endings are normalised
// and surrounding whitespace trimmed; the body is otherwise untouched.
func (e *Extractor) Extract(_ context.Context, input driven.ExtractInput) (*domain.ExtractedText, error) {
	content := string(input.Data)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	return &domain.ExtractedText{
		Content:     content,
		Title:       titleFromName(input.FileName, input.SourceURL),
		TokenCount:  token.Count(content),
		ContentHash: domain.HashContent(content),
		SizeBytes:   int64(len(input.Data)),
		MediaType:   input.MediaType,
		Format:      "plaintext",
		Metadata: map[string]any{
			"line_count": strings.Count(content, "\n") + 1,
		},
	}, nil
}

// titleFromName derives a human-readable title from the file name, or
// the URL path when no file name is present.
func titleFromName(fileName, sourceURL string) string {
	name := fileName
	if name == "" {
		name = sourceURL
	}
	if name == "" {
		return ""
	}

	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}
