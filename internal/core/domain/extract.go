package domain

// ExtractedText is the output of format-specific text extraction.
// Content is the normalised plain text; the remaining fields describe
// what was extracted and how.
type ExtractedText struct {
	// Content is the normalised plain text.
	Content string

	// Title is the in-content title, if one was found.
	Title string

	// TokenCount is the approximate token count of Content.
	TokenCount int

	// ContentHash is the deterministic digest of Content.
	ContentHash string

	// SizeBytes is the raw input size.
	SizeBytes int64

	// MediaType is the content type the extractor dispatched on.
	MediaType string

	// Format names the extractor that handled the input
	// (e.g. "pdf", "html", "plaintext").
	Format string

	// Metadata holds format-specific details such as page or line
	// counts and the number of pages skipped due to extraction errors.
	Metadata map[string]any
}
