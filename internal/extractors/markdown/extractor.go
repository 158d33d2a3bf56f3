package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/token"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown documents.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the media types and extensions this extractor handles.
func (e *Extractor) Formats() []string {
	return []string{
		"text/markdown",
		"text/x-markdown",
		".md",
		".markdown",
		".mdown",
	}
}

// Available reports whether the extractor can run. Markdown has no
// external dependencies.
func (e *Extractor) Available() bool {
	return true
}

// Extract converts a Markdown document to plain text with formatting
// markers removed. The title comes from the first H1 heading when one
// exists.
func (e *Extractor) Extract(_ context.Context, input driven.ExtractInput) (*domain.ExtractedText, error) {
	raw := string(input.Data)
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	title := extractMarkdownTitle(raw, input.FileName, input.SourceURL)
	content := stripMarkdown(raw)

	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	return &domain.ExtractedText{
		Content:     content,
		Title:       title,
		TokenCount:  token.Count(content),
		ContentHash: domain.HashContent(content),
		SizeBytes:   int64(len(input.Data)),
		MediaType:   input.MediaType,
		Format:      "markdown",
		Metadata: map[string]any{
			"heading_count": len(headings.FindAllStringIndex(raw, -1)),
		},
	}, nil
}

// Pre-compiled regular expressions for markdown stripping.
var (
	codeBlocks   = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode   = regexp.MustCompile("`[^`]+`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquotes  = regexp.MustCompile(`(?m)^>\s*`)
	horizRules   = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiBlank   = regexp.MustCompile(`\n{3,}`)
)

// extractMarkdownTitle finds the first H1 heading or falls back to the
// file name.
func extractMarkdownTitle(content, fileName, sourceURL string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return titleFromName(fileName, sourceURL)
}

// stripMarkdown removes common markdown formatting for plain text
// content. This is a simplified implementation that handles common
// cases.
func stripMarkdown(content string) string {
	content = codeBlocks.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquotes.ReplaceAllString(content, "")
	content = horizRules.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")

	// Bold and italic markers
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	content = multiBlank.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
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
