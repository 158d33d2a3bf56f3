// Package fetch provides a bounded HTTP document fetcher for URL
// sources.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// DefaultTimeout bounds a single fetch including redirects.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBytes caps the response body size. Matches the extraction
// size guard so a fetched document is never too large to extract.
const DefaultMaxBytes = 10 << 20

// defaultUserAgent identifies the client to remote servers.
const defaultUserAgent = "corpora-cli"

// Config holds fetcher configuration.
type Config struct {
	// Timeout bounds each fetch. Defaults to DefaultTimeout.
	Timeout time.Duration

	// MaxBytes caps the response body size. Defaults to DefaultMaxBytes.
	MaxBytes int64

	// UserAgent overrides the User-Agent header.
	UserAgent string
}

// Fetcher downloads remote documents over HTTP with a body size cap.
type Fetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a bounded HTTP fetcher.
func NewFetcher(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

// Fetch downloads the document at url, following redirects.
// Returns domain.ErrContentTooLarge when the body exceeds the
// configured limit.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*driven.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d",
			domain.ErrContentTooLarge, resp.ContentLength, f.maxBytes)
	}

	// Read one byte past the limit so truncated-at-limit bodies are
	// distinguishable from oversized ones.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: body exceeds limit of %d bytes",
			domain.ErrContentTooLarge, f.maxBytes)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &driven.FetchResult{
		Body:      body,
		MediaType: mediaType(resp.Header.Get("Content-Type")),
		FinalURL:  finalURL,
	}, nil
}

// mediaType strips parameters like charset from a Content-Type header.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Fall back to everything before any parameter list
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return parsed
}
