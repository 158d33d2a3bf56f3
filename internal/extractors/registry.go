package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// DefaultMaxBytes is the input size limit applied when none is given.
const DefaultMaxBytes = 10 << 20 // 10 MiB

// Registry dispatches extraction requests to registered extractors.
// Dispatch keys are lowercased media types and file extensions; when
// two extractors claim the same key, the later registration wins.
type Registry struct {
	maxBytes int64
	byFormat map[string]driven.Extractor
	order    []driven.Extractor
}

// NewRegistry creates an empty registry. maxBytes bounds the raw input
// size; zero or negative selects DefaultMaxBytes.
func NewRegistry(maxBytes int64) *Registry {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Registry{
		maxBytes: maxBytes,
		byFormat: make(map[string]driven.Extractor),
	}
}

// Register adds an extractor, claiming all of its formats. Register the
// broadest extractor first so specific ones can override shared keys.
func (r *Registry) Register(e driven.Extractor) {
	for _, format := range e.Formats() {
		r.byFormat[strings.ToLower(format)] = e
	}
	r.order = append(r.order, e)
}

// Extract selects an extractor for the input and runs it.
func (r *Registry) Extract(ctx context.Context, input driven.ExtractInput) (*domain.ExtractedText, error) {
	if int64(len(input.Data)) > r.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrContentTooLarge, len(input.Data), r.maxBytes)
	}

	extractor, format := r.resolve(input)
	if extractor == nil {
		hint := normaliseMediaType(input.MediaType)
		if hint == "" {
			hint = extensionOf(input)
		}
		if hint == "" {
			hint = "unknown"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, hint)
	}
	if !extractor.Available() {
		return nil, fmt.Errorf("%w: %s", domain.ErrExtractorUnavailable, format)
	}

	return extractor.Extract(ctx, input)
}

// resolve picks an extractor for the input, trying the media type
// first, then the file extension, then a text/plain fallback for any
// text subtype.
func (r *Registry) resolve(input driven.ExtractInput) (driven.Extractor, string) {
	mediaType := normaliseMediaType(input.MediaType)
	if mediaType != "" {
		if e, ok := r.byFormat[mediaType]; ok {
			return e, mediaType
		}
	}

	if ext := extensionOf(input); ext != "" {
		if e, ok := r.byFormat[ext]; ok {
			return e, ext
		}
	}

	if strings.HasPrefix(mediaType, "text/") {
		if e, ok := r.byFormat["text/plain"]; ok {
			return e, mediaType
		}
	}

	return nil, ""
}

// Supports reports whether a registered extractor handles the format.
func (r *Registry) Supports(format string) bool {
	_, ok := r.byFormat[strings.ToLower(format)]
	return ok
}

// Formats returns all registered formats, sorted.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.byFormat))
	for format := range r.byFormat {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Availability reports, per format, whether extraction can run now.
func (r *Registry) Availability() map[string]bool {
	report := make(map[string]bool, len(r.byFormat))
	for format, extractor := range r.byFormat {
		report[format] = extractor.Available()
	}
	return report
}

// normaliseMediaType lowercases a media type and strips parameters
// such as charset.
func normaliseMediaType(mediaType string) string {
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType
}

// extensionOf returns the lowercased file extension of the input,
// falling back to the URL path when there is no file name.
func extensionOf(input driven.ExtractInput) string {
	name := input.FileName
	if name == "" {
		name = input.SourceURL
		if i := strings.IndexAny(name, "?#"); i >= 0 {
			name = name[:i]
		}
	}
	return strings.ToLower(filepath.Ext(name))
}
