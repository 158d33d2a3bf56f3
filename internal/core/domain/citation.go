package domain

// Citation is the structured provenance record attached to a query result.
// It identifies the document, source and chunk position a result came
// from, plus a human-readable rendering and a context snippet.
type Citation struct {
	// DocumentID identifies the cited document.
	DocumentID string

	// DocumentTitle is the cited document's title.
	DocumentTitle string

	// SourceID identifies the cited document's source.
	SourceID string

	// SourceName is the source's display name.
	SourceName string

	// Origin is the document's provenance: the URL for crawled
	// documents, the file name for uploaded ones.
	Origin string

	// Section is the 1-based chunk index within the document.
	// Zero when the result came from the first chunk.
	Section int

	// Text is the assembled human-readable citation.
	Text string

	// Snippet is the highest-scoring context window around the
	// query terms, trimmed to word boundaries.
	Snippet string

	// Confidence estimates citation reliability in [0, 1].
	Confidence float64
}
