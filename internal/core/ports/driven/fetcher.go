package driven

import "context"

// FetchResult is a retrieved remote document.
type FetchResult struct {
	// Body is the response body, bounded by the fetcher's size limit.
	Body []byte

	// MediaType is the Content-Type header without parameters.
	MediaType string

	// FinalURL is the URL after following redirects.
	FinalURL string
}

// Fetcher retrieves remote documents for URL sources.
type Fetcher interface {
	// Fetch downloads the document at url.
	// Returns domain.ErrContentTooLarge when the body exceeds the
	// configured limit.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}
