// Package embedding implements the embedding pipeline shared by all
// providers: input sanitisation, fixed-size batching, caching, rate
// limiting and retries with exponential backoff.
//
// The Client type wraps a raw provider (openai or ollama subpackage)
// and is what the rest of the application sees. Providers only know
// how to turn a slice of non-empty strings into vectors; everything
// else lives here so it behaves identically regardless of backend.
package embedding
