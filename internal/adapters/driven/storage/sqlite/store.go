package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.corpora/data/knowledge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpora", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "knowledge.db")

	// Open database with WAL mode for better concurrency. Foreign keys
	// go through the DSN so every pooled connection enforces the
	// ownership cascades, not just the first one.
	db, err := sql.Open("sqlite",
		dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// EmbeddingStore returns an EmbeddingStore interface backed by this store.
func (s *Store) EmbeddingStore() driven.EmbeddingStore {
	return &embeddingStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// SaveSource stores or updates a source.
func (s *sourceStore) SaveSource(ctx context.Context, source *domain.Source) error {
	tagsJSON, err := json.Marshal(source.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}
	metadataJSON, err := json.Marshal(source.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources (id, tenant_id, name, kind, status, last_error,
			crawl_url, crawl_frequency, crawl_max_depth,
			document_count, chunk_count, token_count,
			tags, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			name = excluded.name,
			kind = excluded.kind,
			status = excluded.status,
			last_error = excluded.last_error,
			crawl_url = excluded.crawl_url,
			crawl_frequency = excluded.crawl_frequency,
			crawl_max_depth = excluded.crawl_max_depth,
			document_count = excluded.document_count,
			chunk_count = excluded.chunk_count,
			token_count = excluded.token_count,
			tags = excluded.tags,
			metadata = excluded.metadata,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, source.ID, source.TenantID, source.Name, string(source.Kind), string(source.Status),
		source.LastError, source.Crawl.URL, int64(source.Crawl.Frequency), source.Crawl.MaxDepth,
		source.Stats.DocumentCount, source.Stats.ChunkCount, source.Stats.TokenCount,
		string(tagsJSON), string(metadataJSON), source.CreatedAt, source.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// GetSource retrieves a source by ID.
func (s *sourceStore) GetSource(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, name, kind, status, last_error,
			crawl_url, crawl_frequency, crawl_max_depth,
			document_count, chunk_count, token_count,
			tags, metadata, created_at, updated_at
		FROM sources WHERE id = ?
	`, id)

	return scanSource(row)
}

// ListSources returns all sources for a tenant, ordered by name.
func (s *sourceStore) ListSources(ctx context.Context, tenantID string) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, kind, status, last_error,
			crawl_url, crawl_frequency, crawl_max_depth,
			document_count, chunk_count, token_count,
			tags, metadata, created_at, updated_at
		FROM sources WHERE tenant_id = ?
		ORDER BY name, id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// DeleteSource removes a source. The foreign key cascade removes its
// documents, chunks and embeddings in the same statement.
func (s *sourceStore) DeleteSource(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document. A content-hash collision
// with another document of the same tenant surfaces as
// domain.ErrAlreadyExists.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, tenant_id, source_id, title, content, content_hash,
			file_name, file_size, media_type, url,
			token_count, status, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			source_id = excluded.source_id,
			title = excluded.title,
			content = excluded.content,
			content_hash = excluded.content_hash,
			file_name = excluded.file_name,
			file_size = excluded.file_size,
			media_type = excluded.media_type,
			url = excluded.url,
			token_count = excluded.token_count,
			status = excluded.status,
			metadata = excluded.metadata,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, doc.ID, doc.TenantID, doc.SourceID, doc.Title, doc.Content, doc.ContentHash,
		doc.Origin.FileName, doc.Origin.FileSize, doc.Origin.MediaType, doc.Origin.URL,
		doc.TokenCount, string(doc.Status), string(metadataJSON), doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, source_id, title, content, content_hash,
			file_name, file_size, media_type, url,
			token_count, status, metadata, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// FindByHash looks up a tenant's document by content hash.
func (s *documentStore) FindByHash(ctx context.Context, tenantID, contentHash string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, source_id, title, content, content_hash,
			file_name, file_size, media_type, url,
			token_count, status, metadata, created_at, updated_at
		FROM documents WHERE tenant_id = ? AND content_hash = ?
		LIMIT 1
	`, tenantID, contentHash)

	return scanDocument(row)
}

// ListDocuments returns documents for a source, ordered by title.
func (s *documentStore) ListDocuments(ctx context.Context, sourceID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, source_id, title, content, content_hash,
			file_name, file_size, media_type, url,
			token_count, status, metadata, created_at, updated_at
		FROM documents WHERE source_id = ?
		ORDER BY title, id
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ListTenantDocuments returns all documents for a tenant.
func (s *documentStore) ListTenantDocuments(ctx context.Context, tenantID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, source_id, title, content, content_hash,
			file_name, file_size, media_type, url,
			token_count, status, metadata, created_at, updated_at
		FROM documents WHERE tenant_id = ?
		ORDER BY title, id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// DeleteDocument removes a document. Chunks and embeddings cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// SaveChunks stores chunks for a document, replacing any previous
// chunk set.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	documentID := chunks[0].DocumentID

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing previous chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, token_count,
			overlap_start, overlap_end, strategy, is_first, is_last)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.Position, chunk.TokenCount, chunk.OverlapStart, chunk.OverlapEnd,
			string(chunk.Strategy), chunk.IsFirst, chunk.IsLast); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, token_count,
			overlap_start, overlap_end, strategy, is_first, is_last
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, content, position, token_count,
			overlap_start, overlap_end, strategy, is_first, is_last
		FROM chunks WHERE id = ?
	`, id)

	return scanChunk(row)
}

// SourceStats recomputes aggregate counters for a source from the
// documents currently stored under it.
func (s *documentStore) SourceStats(ctx context.Context, sourceID string) (domain.SourceStats, error) {
	var stats domain.SourceStats

	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(token_count), 0)
		FROM documents WHERE source_id = ?
	`, sourceID)
	if err := row.Scan(&stats.DocumentCount, &stats.TokenCount); err != nil {
		return domain.SourceStats{}, fmt.Errorf("counting documents: %w", err)
	}

	row = s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM chunks WHERE document_id IN (SELECT id FROM documents WHERE source_id = ?)
	`, sourceID)
	if err := row.Scan(&stats.ChunkCount); err != nil {
		return domain.SourceStats{}, fmt.Errorf("counting chunks: %w", err)
	}

	return stats, nil
}

// ==================== Embedding Store ====================

// embeddingStore implements driven.EmbeddingStore.
type embeddingStore struct {
	store *Store
}

var _ driven.EmbeddingStore = (*embeddingStore)(nil)

// SaveEmbeddings stores embeddings, replacing any existing vector for
// the same (chunk, model) pair.
func (s *embeddingStore) SaveEmbeddings(ctx context.Context, embeddings []domain.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (id, tenant_id, chunk_id, document_id, source_id,
			model, dimensions, vector, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id, model) DO UPDATE SET
			id = excluded.id,
			tenant_id = excluded.tenant_id,
			document_id = excluded.document_id,
			source_id = excluded.source_id,
			dimensions = excluded.dimensions,
			vector = excluded.vector,
			metadata = excluded.metadata,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, emb := range embeddings {
		metadataJSON, err := json.Marshal(emb.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling embedding metadata: %w", err)
		}

		vectorBlob := float32SliceToBytes(emb.Vector)

		if _, err := stmt.ExecContext(ctx, emb.ID, emb.TenantID, emb.ChunkID,
			emb.DocumentID, emb.SourceID, emb.Model, emb.Dimensions,
			vectorBlob, string(metadataJSON), emb.CreatedAt); err != nil {
			return fmt.Errorf("saving embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListEmbeddings returns all embeddings matching the filter.
func (s *embeddingStore) ListEmbeddings(ctx context.Context, filter driven.EmbeddingFilter) ([]domain.Embedding, error) {
	query := `
		SELECT id, tenant_id, chunk_id, document_id, source_id,
			model, dimensions, vector, metadata, created_at
		FROM embeddings`

	var conds []string
	var args []any
	if filter.TenantID != "" {
		conds = append(conds, "tenant_id = ?")
		args = append(args, filter.TenantID)
	}
	if filter.Model != "" {
		conds = append(conds, "model = ?")
		args = append(args, filter.Model)
	}
	if len(filter.SourceIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.SourceIDs)), ",")
		conds = append(conds, "source_id IN ("+placeholders+")")
		for _, id := range filter.SourceIDs {
			args = append(args, id)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY chunk_id"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	return collectEmbeddings(rows)
}

// ListDocumentEmbeddings returns embeddings for one document under one
// model.
func (s *embeddingStore) ListDocumentEmbeddings(ctx context.Context, documentID, model string) ([]domain.Embedding, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, chunk_id, document_id, source_id,
			model, dimensions, vector, metadata, created_at
		FROM embeddings WHERE document_id = ? AND model = ?
		ORDER BY chunk_id
	`, documentID, model)
	if err != nil {
		return nil, fmt.Errorf("querying document embeddings: %w", err)
	}
	defer rows.Close()

	return collectEmbeddings(rows)
}

// DeleteDocumentEmbeddings removes all of a document's embeddings for
// one model and reports how many were removed.
func (s *embeddingStore) DeleteDocumentEmbeddings(ctx context.Context, documentID, model string) (int, error) {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM embeddings WHERE document_id = ? AND model = ?", documentID, model)
	if err != nil {
		return 0, fmt.Errorf("deleting document embeddings: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted embeddings: %w", err)
	}
	return int(affected), nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanSource scans a single source row.
func scanSource(row rowScanner) (*domain.Source, error) {
	var source domain.Source
	var kind, status string
	var frequency int64
	var tagsJSON, metadataJSON sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&source.ID, &source.TenantID, &source.Name, &kind, &status,
		&source.LastError, &source.Crawl.URL, &frequency, &source.Crawl.MaxDepth,
		&source.Stats.DocumentCount, &source.Stats.ChunkCount, &source.Stats.TokenCount,
		&tagsJSON, &metadataJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	source.Kind = domain.SourceKind(kind)
	source.Status = domain.SourceStatus(status)
	source.Crawl.Frequency = time.Duration(frequency)

	if tagsJSON.Valid && tagsJSON.String != "" && tagsJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(tagsJSON.String), &source.Tags); err != nil {
			return nil, fmt.Errorf("unmarshalling tags: %w", err)
		}
	}
	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON.String), &source.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}
	if createdAt.Valid {
		source.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		source.UpdatedAt = updatedAt.Time
	}

	return &source, nil
}

// scanDocument scans a single document row.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var metadataJSON sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.TenantID, &doc.SourceID, &doc.Title, &doc.Content,
		&doc.ContentHash, &doc.Origin.FileName, &doc.Origin.FileSize,
		&doc.Origin.MediaType, &doc.Origin.URL, &doc.TokenCount, &status,
		&metadataJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)

	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}

// collectDocuments drains a document result set.
func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// scanChunk scans a single chunk row.
func scanChunk(row rowScanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var strategy string

	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content, &chunk.Position,
		&chunk.TokenCount, &chunk.OverlapStart, &chunk.OverlapEnd, &strategy,
		&chunk.IsFirst, &chunk.IsLast); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Strategy = domain.ChunkStrategy(strategy)

	return &chunk, nil
}

// collectEmbeddings drains an embedding result set.
func collectEmbeddings(rows *sql.Rows) ([]domain.Embedding, error) {
	var embeddings []domain.Embedding //nolint:prealloc // size unknown from query
	for rows.Next() {
		var emb domain.Embedding
		var vectorBlob []byte
		var metadataJSON sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&emb.ID, &emb.TenantID, &emb.ChunkID, &emb.DocumentID,
			&emb.SourceID, &emb.Model, &emb.Dimensions, &vectorBlob,
			&metadataJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}

		emb.Vector = bytesToFloat32Slice(vectorBlob)

		if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != jsonNull {
			if err := json.Unmarshal([]byte(metadataJSON.String), &emb.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling embedding metadata: %w", err)
			}
		}
		if createdAt.Valid {
			emb.CreatedAt = createdAt.Time
		}

		embeddings = append(embeddings, emb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	return embeddings, nil
}
