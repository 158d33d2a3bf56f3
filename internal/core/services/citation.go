package services

import (
	"fmt"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Snippet extraction parameters: a fixed-width window slides over the
// chunk in small steps and the window with the most query-term
// occurrences wins.
const (
	snippetWidth = 200
	snippetStep  = 40
)

// Confidence scoring: a base value plus fixed increments for each
// provenance signal that checks out, capped at 1.
const (
	confidenceBase         = 0.5
	confidenceDocComplete  = 0.15
	confidenceSrcComplete  = 0.15
	confidenceContentHash  = 0.1
	confidenceSubstantial  = 0.1
	substantialChunkTokens = 50
)

// CitationBuilder derives structured provenance records and context
// snippets for query results.
type CitationBuilder struct{}

// NewCitationBuilder creates a citation builder.
func NewCitationBuilder() *CitationBuilder {
	return &CitationBuilder{}
}

// Build assembles the citation for one result. The source may be nil
// when it could not be loaded; the citation then omits source fields
// and loses the source confidence increment.
func (b *CitationBuilder) Build(chunk domain.Chunk, doc *domain.Document, source *domain.Source, terms []string) domain.Citation {
	citation := domain.Citation{
		DocumentID:    doc.ID,
		DocumentTitle: doc.Title,
		Origin:        origin(doc),
		Snippet:       snippet(chunk.Content, terms),
		Confidence:    confidence(chunk, doc, source),
	}
	if source != nil {
		citation.SourceID = source.ID
		citation.SourceName = source.Name
	}
	if chunk.Position > 0 {
		citation.Section = chunk.Position + 1
	}
	citation.Text = formatCitation(citation)
	return citation
}

// origin returns where the document's bytes came from: the URL for
// crawled documents, the file name for uploaded ones.
func origin(doc *domain.Document) string {
	if doc.Origin.URL != "" {
		return doc.Origin.URL
	}
	return doc.Origin.FileName
}

// formatCitation renders the human-readable citation line from the
// fields that are present.
func formatCitation(c domain.Citation) string {
	var parts []string
	if c.DocumentTitle != "" {
		parts = append(parts, fmt.Sprintf("%q", c.DocumentTitle))
	}
	if c.Origin != "" {
		parts = append(parts, c.Origin)
	}
	if c.SourceName != "" && c.SourceName != c.DocumentTitle {
		parts = append(parts, c.SourceName)
	}
	if c.Section > 0 {
		parts = append(parts, fmt.Sprintf("section %d", c.Section))
	}
	return strings.Join(parts, ", ")
}

// snippet returns the highest-scoring window of content around the
// query terms, trimmed to word boundaries, with a trailing ellipsis
// when the window stops short of the content's end.
func snippet(content string, terms []string) string {
	content = strings.TrimSpace(content)
	if len(content) <= snippetWidth {
		return content
	}

	bestStart := 0
	bestScore := -1
	for start := 0; start <= len(content)-snippetWidth; start += snippetStep {
		score := windowScore(content[start:start+snippetWidth], terms)
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
	}
	// The stepped scan can stop short of the final window.
	if tail := len(content) - snippetWidth; tail%snippetStep != 0 {
		if score := windowScore(content[tail:], terms); score > bestScore {
			bestStart = tail
		}
	}

	end := bestStart + snippetWidth
	window := content[bestStart:end]

	// Trim partial words at the cut points. Cutting at a space also
	// guarantees the boundary falls between runes.
	if bestStart > 0 {
		if i := strings.IndexByte(window, ' '); i >= 0 {
			window = window[i+1:]
		}
	}
	if end < len(content) {
		if i := strings.LastIndexByte(window, ' '); i > 0 {
			window = window[:i]
		}
		window += "..."
	}
	return window
}

// windowScore counts query-term occurrences within one window.
func windowScore(window string, terms []string) int {
	lower := strings.ToLower(window)
	score := 0
	for _, term := range terms {
		score += strings.Count(lower, term)
	}
	return score
}

// confidence estimates citation reliability from provenance signals.
func confidence(chunk domain.Chunk, doc *domain.Document, source *domain.Source) float64 {
	score := confidenceBase
	if doc.Status == domain.DocumentStatusCompleted {
		score += confidenceDocComplete
	}
	if source != nil && source.Status == domain.SourceStatusCompleted {
		score += confidenceSrcComplete
	}
	if doc.ContentHash != "" {
		score += confidenceContentHash
	}
	if chunk.TokenCount >= substantialChunkTokens {
		score += confidenceSubstantial
	}
	if score > 1 {
		score = 1
	}
	return score
}
