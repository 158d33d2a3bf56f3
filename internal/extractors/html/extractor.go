package html

import (
	"context"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/token"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the media types and extensions this extractor handles.
func (e *Extractor) Formats() []string {
	return []string{
		"text/html",
		"application/xhtml+xml",
		".html",
		".htm",
		".xhtml",
	}
}

// Available reports whether the extractor can run. HTML stripping has
// no external dependencies.
func (e *Extractor) Available() bool {
	return true
}

// Extract converts an HTML document to readable plain text. Scripts,
// styles and markup are removed; block elements become line breaks.
func (e *Extractor) Extract(_ context.Context, input driven.ExtractInput) (*domain.ExtractedText, error) {
	raw := string(input.Data)

	title := extractHTMLTitle(raw, input.FileName, input.SourceURL)
	content := stripHTML(raw)

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
		Format:      "html",
		Metadata: map[string]any{
			"line_count": strings.Count(content, "\n") + 1,
		},
	}, nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
)

// extractHTMLTitle extracts a title from the <title> tag or falls back
// to the file name.
func extractHTMLTitle(content, fileName, sourceURL string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		title := strings.TrimSpace(html.UnescapeString(matches[1]))
		if title != "" {
			return title
		}
	}
	return titleFromName(fileName, sourceURL)
}

// stripHTML removes HTML tags and extracts readable text content.
func stripHTML(content string) string {
	// Remove script, style, noscript, head, and svg blocks entirely
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become line breaks so paragraph structure
	// survives for the chunker
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	// Trim each line and drop empties, preserving blank-line paragraph
	// separators produced above
	lines := strings.Split(content, "\n")
	var result []string
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				result = append(result, "")
			}
			blank = true
			continue
		}
		result = append(result, line)
		blank = false
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
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
