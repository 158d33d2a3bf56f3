// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - SourceStore: Source configuration persistence
//   - DocumentStore: Document and chunk persistence
//   - EmbeddingStore: Embedding vector persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Vectors are stored as little-endian float32 BLOBs. Ownership edges
// (source -> document -> chunk -> embedding) cascade on delete, and a partial
// unique index on (tenant_id, content_hash) backs ingestion deduplication.
//
// # Data Location
//
// By default, the database is stored at ~/.corpora/data/knowledge.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
