// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ExtractorRegistry: Converts raw bytes into plain text
//   - Chunker: Splits extracted text into token-bounded chunks
//   - SourceStore: Source configuration persistence
//   - DocumentStore: Document and chunk persistence
//   - EmbeddingStore: Embedding vector persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, ingestion
//     stores documents and chunks only, and queries fall back to keyword
//     matching over stored chunks.
//   - VectorSearcher: Similarity search over stored embeddings. Only
//     meaningful when EmbeddingService is configured.
//   - EmbeddingCache: Memoises embedding vectors across runs.
//   - Fetcher: Retrieves remote documents for URL sources.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
