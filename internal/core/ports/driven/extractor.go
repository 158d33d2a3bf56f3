package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// ExtractInput carries raw document bytes plus the hints used to pick
// an extractor. MediaType takes precedence over the FileName extension.
type ExtractInput struct {
	// Data is the raw document content.
	Data []byte

	// MediaType is the declared content type (e.g. "text/html"), if known.
	// Parameters such as charset are ignored during extractor selection.
	MediaType string

	// FileName is the original file name, used for extension-based
	// selection when MediaType is empty or unrecognised.
	FileName string

	// SourceURL is the document origin for URL sources, if any.
	SourceURL string
}

// Extractor converts one family of document formats into plain text.
//
// Implementations may include:
//   - Plain text and Markdown (pass-through with light cleanup)
//   - HTML (tag stripping, script/style removal)
//   - PDF (external tool shell-out)
//   - DOCX (zip archive XML extraction)
type Extractor interface {
	// Formats returns the media types and file extensions this
	// extractor handles. Extensions include the leading dot.
	Formats() []string

	// Available reports whether the extractor can run in this
	// environment. Extractors with external tool dependencies
	// may be unavailable.
	Available() bool

	// Extract converts raw bytes into plain text with metadata.
	// Returns domain.ErrEmptyContent when the input yields no text
	// and domain.ErrExtractorUnavailable when a required external
	// dependency is missing.
	Extract(ctx context.Context, input ExtractInput) (*domain.ExtractedText, error)
}

// ExtractorRegistry routes extraction requests to the right Extractor.
type ExtractorRegistry interface {
	// Extract selects an extractor for the input and runs it.
	// Returns domain.ErrUnsupportedType when no extractor matches and
	// domain.ErrContentTooLarge when the input exceeds the size limit.
	Extract(ctx context.Context, input ExtractInput) (*domain.ExtractedText, error)

	// Supports reports whether some registered extractor handles the
	// given media type or file extension.
	Supports(format string) bool

	// Formats returns all formats with at least one registered
	// extractor, sorted.
	Formats() []string

	// Availability reports, per format, whether extraction is currently
	// possible. Formats backed by missing external tools report false.
	Availability() map[string]bool
}
