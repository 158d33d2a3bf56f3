package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	chunking "github.com/corpora-labs/corpora-cli/internal/chunker"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

const (
	// defaultQueryLimit caps result lists when the caller does not set one.
	defaultQueryLimit = 10

	// previewLength is the character budget for result previews.
	previewLength = 200
)

// KnowledgeService coordinates the ingestion and query pipelines.
// Ingestion: fetch/receive bytes, extract text, deduplicate by content
// hash, chunk, persist, then embed. Query: embed the query, scan for
// similar vectors, score and cite, falling back to lexical matching
// when vector search cannot serve.
type KnowledgeService struct {
	sourceStore    driven.SourceStore
	docStore       driven.DocumentStore
	embeddingStore driven.EmbeddingStore
	extractors     driven.ExtractorRegistry
	chunker        driven.Chunker
	embedder       driven.EmbeddingService
	searcher       driven.VectorSearcher
	fetcher        driven.Fetcher

	scorer    *RelevanceScorer
	citations *CitationBuilder

	defaultTenant   string
	defaultChunking domain.ChunkConfig

	// mu serialises embedding-store mutation against similarity
	// scans so a query never observes a partially rebuilt index.
	mu sync.RWMutex
}

// NewKnowledgeService creates the orchestrator.
// The embedder, searcher and fetcher are optional: without embedder and
// searcher queries run lexically, without fetcher URL ingestion is
// rejected.
func NewKnowledgeService(
	sourceStore driven.SourceStore,
	docStore driven.DocumentStore,
	embeddingStore driven.EmbeddingStore,
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	searcher driven.VectorSearcher,
	fetcher driven.Fetcher,
) *KnowledgeService {
	return &KnowledgeService{
		sourceStore:     sourceStore,
		docStore:        docStore,
		embeddingStore:  embeddingStore,
		extractors:      extractors,
		chunker:         chunker,
		embedder:        embedder,
		searcher:        searcher,
		fetcher:         fetcher,
		scorer:          NewRelevanceScorer(),
		citations:       NewCitationBuilder(),
		defaultTenant:   "default",
		defaultChunking: domain.DefaultChunkConfig(),
	}
}

// SetDefaultTenant sets the tenant used when requests leave it empty.
func (k *KnowledgeService) SetDefaultTenant(tenantID string) {
	if tenantID != "" {
		k.defaultTenant = tenantID
	}
}

// SetDefaultChunking sets the chunking configuration used when requests
// do not override it.
func (k *KnowledgeService) SetDefaultChunking(cfg domain.ChunkConfig) {
	k.defaultChunking = cfg
}

// Ingest runs the ingestion pipeline for one document.
func (k *KnowledgeService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	logger.Section("Ingestion")
	req.TenantID = k.resolveTenant(req.TenantID)

	if req.SourceID == "" {
		return nil, domain.NewValidationError("source_id", "source is required")
	}
	if len(req.Data) > 0 && req.URL != "" {
		return nil, domain.NewValidationError("data", "provide either data or url, not both")
	}
	if len(req.Data) == 0 && req.URL == "" {
		return nil, domain.NewValidationError("data", "data or url is required")
	}
	if req.Chunking != nil {
		if err := req.Chunking.Validate(); err != nil {
			return nil, err
		}
	}

	source, err := k.sourceStore.GetSource(ctx, req.SourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if source.TenantID != req.TenantID {
		return nil, domain.NewValidationError("source_id", "source belongs to a different tenant")
	}
	if source.Status == domain.SourceStatusDisabled {
		return nil, domain.NewValidationError("source_id", "source is disabled")
	}

	k.setSourceStatus(ctx, source, domain.SourceStatusProcessing, "")

	result, err := k.ingestDocument(ctx, source, req)
	if err != nil {
		k.setSourceStatus(ctx, source, domain.SourceStatusError, err.Error())
		return nil, err
	}

	k.setSourceStatus(ctx, source, domain.SourceStatusCompleted, "")
	k.refreshSourceStats(ctx, source)
	return result, nil
}

// ingestDocument runs extract, dedup, chunk, persist and embed for one
// request. The caller owns source status bookkeeping.
func (k *KnowledgeService) ingestDocument(ctx context.Context, source *domain.Source, req domain.IngestRequest) (*domain.IngestResult, error) {
	input, err := k.extractInput(ctx, req)
	if err != nil {
		return nil, err
	}

	extracted, err := k.extractors.Extract(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}
	logger.Debug("Extracted %d tokens as %s", extracted.TokenCount, extracted.Format)

	// Dedup on the normalised content hash: re-ingesting known content
	// returns the existing document untouched.
	existing, err := k.docStore.FindByHash(ctx, req.TenantID, extracted.ContentHash)
	if err == nil {
		logger.Info("Content already ingested as document %s, skipping", existing.ID)
		return &domain.IngestResult{Document: existing, Deduplicated: true}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("hash lookup: %w", err)
	}

	now := time.Now()
	doc := &domain.Document{
		ID:          uuid.New().String(),
		TenantID:    req.TenantID,
		SourceID:    source.ID,
		Title:       documentTitle(req, extracted, input),
		Content:     extracted.Content,
		ContentHash: extracted.ContentHash,
		Origin: domain.DocumentOrigin{
			FileName:  input.FileName,
			FileSize:  extracted.SizeBytes,
			MediaType: extracted.MediaType,
			URL:       input.SourceURL,
		},
		TokenCount: extracted.TokenCount,
		Status:     domain.DocumentStatusPending,
		Metadata:   extracted.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := k.docStore.SaveDocument(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost a concurrent race on the content hash; the winner's
			// document serves as the dedup result.
			winner, findErr := k.docStore.FindByHash(ctx, req.TenantID, extracted.ContentHash)
			if findErr == nil {
				return &domain.IngestResult{Document: winner, Deduplicated: true}, nil
			}
		}
		return nil, fmt.Errorf("save document: %w", err)
	}

	doc.Status = domain.DocumentStatusProcessing
	doc.UpdatedAt = time.Now()
	if err := k.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	cfg := k.defaultChunking
	if req.Chunking != nil {
		cfg = *req.Chunking
	}
	cfg = chunking.ConfigForFormat(cfg, extracted.Format, extracted.TokenCount)

	chunks, err := k.chunker.Chunk(ctx, doc.ID, extracted.Content, cfg)
	if err != nil {
		k.failDocument(ctx, doc)
		return nil, fmt.Errorf("chunk document: %w", err)
	}
	if err := k.docStore.SaveChunks(ctx, chunks); err != nil {
		k.failDocument(ctx, doc)
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	doc.Status = domain.DocumentStatusCompleted
	doc.UpdatedAt = time.Now()
	if err := k.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	logger.Info("Ingested document %s: %d chunks", doc.ID, len(chunks))

	// Embedding failure never reverts a completed document; vectors
	// can be regenerated later through reindexing.
	embedded := 0
	if k.embedder != nil {
		var embErr error
		embedded, embErr = k.embedDocument(ctx, doc, chunks)
		if embErr != nil {
			logger.Warn("Embedding generation for document %s failed: %v", doc.ID, embErr)
			embedded = 0
		}
	}

	return &domain.IngestResult{
		Document:          doc,
		ChunksCreated:     len(chunks),
		EmbeddingsCreated: embedded,
	}, nil
}

// embedDocument generates and persists embeddings for chunks that do
// not yet have one under the active model.
func (k *KnowledgeService) embedDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) (int, error) {
	model := k.embedder.ModelName()

	existing, err := k.embeddingStore.ListDocumentEmbeddings(ctx, doc.ID, model)
	if err != nil {
		return 0, fmt.Errorf("list existing embeddings: %w", err)
	}
	done := make(map[string]bool, len(existing))
	for _, emb := range existing {
		done[emb.ChunkID] = true
	}

	pending := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if !done[chunk.ID] {
			pending = append(pending, chunk)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	texts := make([]string, len(pending))
	for i, chunk := range pending {
		texts[i] = chunk.Content
	}
	vectors, err := k.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}

	embeddings := buildEmbeddings(doc, pending, vectors, model)
	if len(embeddings) == 0 {
		return 0, nil
	}

	k.mu.Lock()
	err = k.embeddingStore.SaveEmbeddings(ctx, embeddings)
	k.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("save embeddings: %w", err)
	}
	return len(embeddings), nil
}

// buildEmbeddings pairs chunks with their vectors in position order.
// Chunks whose input sanitised to nothing produce empty vectors and
// are skipped rather than stored.
func buildEmbeddings(doc *domain.Document, chunks []domain.Chunk, vectors [][]float32, model string) []domain.Embedding {
	now := time.Now()
	embeddings := make([]domain.Embedding, 0, len(chunks))
	for i := range chunks {
		if i >= len(vectors) || len(vectors[i]) == 0 {
			continue
		}
		embeddings = append(embeddings, domain.Embedding{
			ID:         uuid.New().String(),
			TenantID:   doc.TenantID,
			ChunkID:    chunks[i].ID,
			DocumentID: doc.ID,
			SourceID:   doc.SourceID,
			Model:      model,
			Dimensions: len(vectors[i]),
			Vector:     vectors[i],
			CreatedAt:  now,
		})
	}
	return embeddings
}

// Query answers a free-text question with ranked, cited results.
func (k *KnowledgeService) Query(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.QueryResult, error) {
	logger.Section("Query")
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.QueryResult{}, nil
	}

	opts.TenantID = k.resolveTenant(opts.TenantID)
	if opts.Limit <= 0 {
		opts.Limit = defaultQueryLimit
	}
	terms := queryTerms(query)
	logger.Debug("Query %q, tenant %s, limit %d", query, opts.TenantID, opts.Limit)

	if k.embedder != nil && k.searcher != nil {
		results, err := k.vectorQuery(ctx, query, opts, terms)
		switch {
		case err != nil && domain.IsValidation(err):
			return nil, err
		case err != nil:
			logger.Warn("Vector search failed, falling back to lexical: %v", err)
		case len(results) > 0:
			return results, nil
		default:
			logger.Debug("No vector candidates above threshold, falling back to lexical")
		}
	}

	return k.lexicalQuery(ctx, opts, terms)
}

// vectorQuery embeds the query, scans for similar vectors and hydrates
// hits into scored, cited results. A failure on one candidate is
// logged and skips that candidate only.
func (k *KnowledgeService) vectorQuery(ctx context.Context, query string, opts domain.QueryOptions, terms []string) ([]domain.QueryResult, error) {
	model := opts.Model
	if model == "" {
		model = k.embedder.ModelName()
	}

	queryVector, err := k.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	filter := driven.EmbeddingFilter{
		TenantID:  opts.TenantID,
		Model:     model,
		SourceIDs: opts.SourceIDs,
	}

	// Request extra candidates so re-ranking has room to reorder.
	k.mu.RLock()
	hits, err := k.searcher.Search(ctx, queryVector, filter, opts.MinSimilarity, opts.Limit*2)
	k.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}
	logger.Debug("Vector search returned %d candidates", len(hits))

	docs := make(map[string]*domain.Document)
	sources := make(map[string]*domain.Source)
	results := make([]domain.QueryResult, 0, len(hits))

	for _, hit := range hits {
		chunk, err := k.docStore.GetChunk(ctx, hit.Embedding.ChunkID)
		if err != nil {
			logger.Warn("Skipping candidate chunk %s: %v", hit.Embedding.ChunkID, err)
			continue
		}

		doc, ok := docs[chunk.DocumentID]
		if !ok {
			doc, err = k.docStore.GetDocument(ctx, chunk.DocumentID)
			if err != nil {
				logger.Warn("Skipping candidate chunk %s, document %s unavailable: %v", chunk.ID, chunk.DocumentID, err)
				continue
			}
			docs[chunk.DocumentID] = doc
		}

		source := k.lookupSource(ctx, sources, doc.SourceID)

		results = append(results, domain.QueryResult{
			ChunkID:         chunk.ID,
			DocumentID:      doc.ID,
			Content:         chunk.Content,
			ContentPreview:  preview(chunk.Content),
			SimilarityScore: hit.Similarity,
			RelevanceScore:  k.scorer.Score(hit.Similarity, *chunk, doc, terms),
			Citation:        k.citations.Build(*chunk, doc, source, terms),
			Metadata: map[string]any{
				"search_mode": string(domain.SearchModeVector),
				"model":       model,
			},
		})
	}

	sortByRelevance(results)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// lexicalQuery serves results by substring term matching over document
// titles and content, taking the best-matching chunk per document.
func (k *KnowledgeService) lexicalQuery(ctx context.Context, opts domain.QueryOptions, terms []string) ([]domain.QueryResult, error) {
	docs, err := k.docStore.ListTenantDocuments(ctx, opts.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var allowed map[string]bool
	if len(opts.SourceIDs) > 0 {
		allowed = make(map[string]bool, len(opts.SourceIDs))
		for _, id := range opts.SourceIDs {
			allowed[id] = true
		}
	}

	model := opts.Model
	if model == "" && k.embedder != nil {
		model = k.embedder.ModelName()
	}

	sources := make(map[string]*domain.Source)
	results := make([]domain.QueryResult, 0)

	for i := range docs {
		doc := &docs[i]
		if allowed != nil && !allowed[doc.SourceID] {
			continue
		}
		if !matchesAnyTerm(doc, terms) {
			continue
		}

		chunk := k.bestChunk(ctx, doc.ID, terms)
		if chunk == nil {
			continue
		}

		source := k.lookupSource(ctx, sources, doc.SourceID)

		results = append(results, domain.QueryResult{
			ChunkID:        chunk.ID,
			DocumentID:     doc.ID,
			Content:        chunk.Content,
			ContentPreview: preview(chunk.Content),
			RelevanceScore: k.scorer.Score(0, *chunk, doc, terms),
			Citation:       k.citations.Build(*chunk, doc, source, terms),
			Metadata: map[string]any{
				"search_mode": string(domain.SearchModeTextFallback),
				"model":       model,
			},
		})
	}

	logger.Debug("Lexical fallback matched %d documents", len(results))
	sortByRelevance(results)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// bestChunk returns the document's chunk with the most query-term
// occurrences, or the first chunk when only the title matched.
func (k *KnowledgeService) bestChunk(ctx context.Context, documentID string, terms []string) *domain.Chunk {
	chunks, err := k.docStore.GetChunks(ctx, documentID)
	if err != nil {
		logger.Warn("Skipping document %s, chunks unavailable: %v", documentID, err)
		return nil
	}
	if len(chunks) == 0 {
		return nil
	}

	best := 0
	bestScore := -1
	for i := range chunks {
		if score := windowScore(chunks[i].Content, terms); score > bestScore {
			bestScore = score
			best = i
		}
	}
	return &chunks[best]
}

// lookupSource loads a source through a per-query cache. A failed load
// caches nil so the citation degrades without repeated lookups.
func (k *KnowledgeService) lookupSource(ctx context.Context, cache map[string]*domain.Source, sourceID string) *domain.Source {
	if source, ok := cache[sourceID]; ok {
		return source
	}
	source, err := k.sourceStore.GetSource(ctx, sourceID)
	if err != nil {
		logger.Warn("Source %s unavailable for citation: %v", sourceID, err)
		source = nil
	}
	cache[sourceID] = source
	return source
}

// Reindex deletes and regenerates embeddings for the requested scope
// under the requested model.
func (k *KnowledgeService) Reindex(ctx context.Context, req domain.ReindexRequest) (*domain.ReindexResult, error) {
	logger.Section("Reindex")
	if k.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	req.TenantID = k.resolveTenant(req.TenantID)
	model := req.Model
	if model == "" {
		model = k.embedder.ModelName()
	}

	sources, err := k.reindexSources(ctx, req)
	if err != nil {
		return nil, err
	}

	// Hold the write lock for the whole rebuild so queries see either
	// the old vectors or the new ones, never a partial mix.
	k.mu.Lock()
	defer k.mu.Unlock()

	result := &domain.ReindexResult{}
	for _, source := range sources {
		docs, err := k.docStore.ListDocuments(ctx, source.ID)
		if err != nil {
			return nil, fmt.Errorf("list documents for source %s: %w", source.ID, err)
		}

		for i := range docs {
			doc := &docs[i]

			deleted, err := k.embeddingStore.DeleteDocumentEmbeddings(ctx, doc.ID, model)
			if err != nil {
				return nil, fmt.Errorf("delete embeddings for document %s: %w", doc.ID, err)
			}

			chunks, err := k.docStore.GetChunks(ctx, doc.ID)
			if err != nil {
				return nil, fmt.Errorf("get chunks for document %s: %w", doc.ID, err)
			}
			result.DocumentsProcessed++
			if len(chunks) == 0 {
				continue
			}

			texts := make([]string, len(chunks))
			for j, chunk := range chunks {
				texts[j] = chunk.Content
			}
			vectors, err := k.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				return nil, fmt.Errorf("embed document %s: %w", doc.ID, err)
			}

			embeddings := buildEmbeddings(doc, chunks, vectors, model)
			if len(embeddings) > 0 {
				if err := k.embeddingStore.SaveEmbeddings(ctx, embeddings); err != nil {
					return nil, fmt.Errorf("save embeddings for document %s: %w", doc.ID, err)
				}
			}

			created := len(embeddings)
			if created > deleted {
				result.EmbeddingsUpdated += deleted
				result.EmbeddingsCreated += created - deleted
			} else {
				result.EmbeddingsUpdated += created
			}
		}
	}

	logger.Info("Reindex complete: %d documents, %d created, %d updated",
		result.DocumentsProcessed, result.EmbeddingsCreated, result.EmbeddingsUpdated)
	return result, nil
}

// reindexSources resolves which sources a reindex run covers.
// Explicitly named sources are used as-is; an unscoped run covers all
// of the tenant's sources except disabled ones.
func (k *KnowledgeService) reindexSources(ctx context.Context, req domain.ReindexRequest) ([]domain.Source, error) {
	if len(req.SourceIDs) == 0 {
		all, err := k.sourceStore.ListSources(ctx, req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("list sources: %w", err)
		}
		sources := make([]domain.Source, 0, len(all))
		for _, source := range all {
			if source.Status == domain.SourceStatusDisabled {
				continue
			}
			sources = append(sources, source)
		}
		return sources, nil
	}

	sources := make([]domain.Source, 0, len(req.SourceIDs))
	for _, id := range req.SourceIDs {
		source, err := k.sourceStore.GetSource(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get source %s: %w", id, err)
		}
		if source.TenantID != req.TenantID {
			return nil, domain.NewValidationError("source_ids", "source "+id+" belongs to a different tenant")
		}
		sources = append(sources, *source)
	}
	return sources, nil
}

// Capabilities reports supported formats and embedding status.
func (k *KnowledgeService) Capabilities(ctx context.Context) domain.Capabilities {
	caps := domain.Capabilities{
		Formats:      k.extractors.Availability(),
		VectorSearch: k.embedder != nil && k.searcher != nil,
	}
	if k.embedder != nil {
		caps.EmbeddingModel = k.embedder.ModelName()
		caps.EmbeddingDimensions = k.embedder.Dimensions()
	}
	return caps
}

// extractInput assembles the extraction input from request bytes or a
// fetched URL.
func (k *KnowledgeService) extractInput(ctx context.Context, req domain.IngestRequest) (driven.ExtractInput, error) {
	if req.URL == "" {
		return driven.ExtractInput{
			Data:      req.Data,
			MediaType: req.MediaType,
			FileName:  req.FileName,
		}, nil
	}

	if k.fetcher == nil {
		return driven.ExtractInput{}, domain.NewValidationError("url", "url ingestion is not configured")
	}

	fetched, err := k.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return driven.ExtractInput{}, fmt.Errorf("fetch document: %w", err)
	}

	finalURL := fetched.FinalURL
	if finalURL == "" {
		finalURL = req.URL
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = fileNameFromURL(finalURL)
	}
	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = fetched.MediaType
	}

	return driven.ExtractInput{
		Data:      fetched.Body,
		MediaType: mediaType,
		FileName:  fileName,
		SourceURL: finalURL,
	}, nil
}

// setSourceStatus transitions a source's lifecycle status. Persistence
// failures are logged, not propagated, so they cannot mask the
// pipeline error being reported.
func (k *KnowledgeService) setSourceStatus(ctx context.Context, source *domain.Source, status domain.SourceStatus, lastError string) {
	source.Status = status
	source.LastError = lastError
	source.UpdatedAt = time.Now()
	if err := k.sourceStore.SaveSource(ctx, source); err != nil {
		logger.Warn("Updating source %s status to %s failed: %v", source.ID, status, err)
	}
}

// refreshSourceStats recomputes and persists a source's rollup counters.
func (k *KnowledgeService) refreshSourceStats(ctx context.Context, source *domain.Source) {
	stats, err := k.docStore.SourceStats(ctx, source.ID)
	if err != nil {
		logger.Warn("Refreshing stats for source %s failed: %v", source.ID, err)
		return
	}
	source.Stats = stats
	source.UpdatedAt = time.Now()
	if err := k.sourceStore.SaveSource(ctx, source); err != nil {
		logger.Warn("Saving stats for source %s failed: %v", source.ID, err)
	}
}

// failDocument marks a document as errored, best effort.
func (k *KnowledgeService) failDocument(ctx context.Context, doc *domain.Document) {
	doc.Status = domain.DocumentStatusError
	doc.UpdatedAt = time.Now()
	if err := k.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Marking document %s as errored failed: %v", doc.ID, err)
	}
}

func (k *KnowledgeService) resolveTenant(tenantID string) string {
	if tenantID != "" {
		return tenantID
	}
	return k.defaultTenant
}

// documentTitle picks the document title: an explicit override wins,
// then the extracted title, then the file name, then the URL.
func documentTitle(req domain.IngestRequest, extracted *domain.ExtractedText, input driven.ExtractInput) string {
	if req.Title != "" {
		return req.Title
	}
	if extracted.Title != "" {
		return extracted.Title
	}
	if input.FileName != "" {
		return input.FileName
	}
	return input.SourceURL
}

// matchesAnyTerm reports whether any query term appears in the
// document's title or content.
func matchesAnyTerm(doc *domain.Document, terms []string) bool {
	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Content)
	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(content, term) {
			return true
		}
	}
	return false
}

// sortByRelevance orders results best first. The sort is stable so
// equal scores keep their scan order.
func sortByRelevance(results []domain.QueryResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
}

// preview truncates content for display, cutting at a word boundary.
func preview(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= previewLength {
		return content
	}
	cut := content[:previewLength]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// fileNameFromURL derives a display file name from a URL path.
func fileNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(parsed.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}
