package cli

import (
	"context"
	"errors"
	"time"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// setupTestServices installs working mock services and returns a cleanup
// function that restores whatever was installed before.
func setupTestServices() func() {
	oldKnowledge := knowledgeService
	oldSource := sourceService
	oldSettings := settingsService

	knowledgeService = &mockKnowledgeService{}
	sourceService = &mockSourceService{}
	settingsService = &mockSettingsService{}

	return func() {
		knowledgeService = oldKnowledge
		sourceService = oldSource
		settingsService = oldSettings
	}
}

var errMockService = errors.New("backing store unavailable")

func testDocumentSource() domain.Source {
	created := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	return domain.Source{
		ID:       "source-123",
		TenantID: "default",
		Name:     "engineering-docs",
		Kind:     domain.SourceKindDocument,
		Status:   domain.SourceStatusCompleted,
		Stats: domain.SourceStats{
			DocumentCount: 3,
			ChunkCount:    12,
			TokenCount:    2400,
		},
		Tags:      []string{"docs"},
		Metadata:  map[string]any{"root_path": "/srv/corpora/docs"},
		CreatedAt: created,
		UpdatedAt: created.Add(48 * time.Hour),
	}
}

func testURLSource() domain.Source {
	created := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	return domain.Source{
		ID:        "source-456",
		TenantID:  "default",
		Name:      "blog",
		Kind:      domain.SourceKindURL,
		Status:    domain.SourceStatusError,
		LastError: "fetch https://example.com/blog: 503",
		Crawl: domain.CrawlConfig{
			URL:       "https://example.com/blog",
			Frequency: 24 * time.Hour,
			MaxDepth:  2,
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct{}

func (m *mockKnowledgeService) Ingest(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	title := req.Title
	if title == "" {
		title = req.FileName
	}
	if title == "" {
		title = req.URL
	}
	return &domain.IngestResult{
		Document: &domain.Document{
			ID:       "doc-1",
			TenantID: req.TenantID,
			SourceID: req.SourceID,
			Title:    title,
			Status:   domain.DocumentStatusCompleted,
		},
		ChunksCreated:     3,
		EmbeddingsCreated: 3,
	}, nil
}

func (m *mockKnowledgeService) Query(_ context.Context, _ string, _ domain.QueryOptions) ([]domain.QueryResult, error) {
	return []domain.QueryResult{
		{
			ChunkID:         "chunk-1",
			DocumentID:      "doc-1",
			Content:         "Rotate credentials every 90 days using the vault CLI.",
			ContentPreview:  "Rotate credentials every 90 days using the vault CLI.",
			SimilarityScore: 0.87,
			RelevanceScore:  0.91,
			Citation: domain.Citation{
				DocumentID:    "doc-1",
				DocumentTitle: "Security Runbook",
				SourceID:      "source-123",
				SourceName:    "engineering-docs",
				Origin:        "runbooks/security.md",
				Section:       2,
				Text:          "Security Runbook, engineering-docs, section 2",
				Snippet:       "Rotate credentials every 90 days",
				Confidence:    0.91,
			},
			Metadata: map[string]any{
				"search_mode": string(domain.SearchModeVector),
				"model":       "text-embedding-3-small",
			},
		},
		{
			ChunkID:        "chunk-2",
			DocumentID:     "doc-2",
			Content:        "Expired keys are revoked by the nightly janitor job.",
			ContentPreview: "Expired keys are revoked by the nightly janitor job.",
			RelevanceScore: 0.64,
			Citation: domain.Citation{
				DocumentID:    "doc-2",
				DocumentTitle: "Ops Handbook",
				SourceID:      "source-123",
				SourceName:    "engineering-docs",
				Origin:        "handbook.md",
				Text:          "Ops Handbook, engineering-docs",
				Confidence:    0.64,
			},
			Metadata: map[string]any{
				"search_mode": string(domain.SearchModeVector),
				"model":       "text-embedding-3-small",
			},
		},
	}, nil
}

func (m *mockKnowledgeService) Reindex(_ context.Context, _ domain.ReindexRequest) (*domain.ReindexResult, error) {
	return &domain.ReindexResult{
		DocumentsProcessed: 2,
		EmbeddingsCreated:  4,
		EmbeddingsUpdated:  2,
	}, nil
}

func (m *mockKnowledgeService) Capabilities(_ context.Context) domain.Capabilities {
	return domain.Capabilities{
		Formats: map[string]bool{
			"text/plain":      true,
			"text/markdown":   true,
			"text/html":       true,
			"application/pdf": false,
		},
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
		VectorSearch:        true,
	}
}

// mockKnowledgeServiceEmpty answers queries with no results.
type mockKnowledgeServiceEmpty struct {
	mockKnowledgeService
}

func (m *mockKnowledgeServiceEmpty) Query(_ context.Context, _ string, _ domain.QueryOptions) ([]domain.QueryResult, error) {
	return nil, nil
}

// mockKnowledgeServiceFallback answers queries via lexical matching.
type mockKnowledgeServiceFallback struct {
	mockKnowledgeService
}

func (m *mockKnowledgeServiceFallback) Query(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.QueryResult, error) {
	results, err := m.mockKnowledgeService.Query(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].SimilarityScore = 0
		results[i].Metadata["search_mode"] = string(domain.SearchModeTextFallback)
	}
	return results, nil
}

// mockKnowledgeServiceDedup reports every document as already ingested.
type mockKnowledgeServiceDedup struct {
	mockKnowledgeService
}

func (m *mockKnowledgeServiceDedup) Ingest(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	return &domain.IngestResult{
		Document: &domain.Document{
			ID:       "doc-1",
			TenantID: req.TenantID,
			SourceID: req.SourceID,
			Title:    "Security Runbook",
			Status:   domain.DocumentStatusCompleted,
		},
		Deduplicated: true,
	}, nil
}

// mockKnowledgeServiceUnsupported rejects every document as an
// unextractable format.
type mockKnowledgeServiceUnsupported struct {
	mockKnowledgeService
}

func (m *mockKnowledgeServiceUnsupported) Ingest(_ context.Context, _ domain.IngestRequest) (*domain.IngestResult, error) {
	return nil, domain.ErrUnsupportedType
}

// mockKnowledgeServiceError fails every operation.
type mockKnowledgeServiceError struct{}

func (m *mockKnowledgeServiceError) Ingest(_ context.Context, _ domain.IngestRequest) (*domain.IngestResult, error) {
	return nil, errMockService
}

func (m *mockKnowledgeServiceError) Query(_ context.Context, _ string, _ domain.QueryOptions) ([]domain.QueryResult, error) {
	return nil, errMockService
}

func (m *mockKnowledgeServiceError) Reindex(_ context.Context, _ domain.ReindexRequest) (*domain.ReindexResult, error) {
	return nil, errMockService
}

func (m *mockKnowledgeServiceError) Capabilities(_ context.Context) domain.Capabilities {
	return domain.Capabilities{}
}

// mockSourceService is a mock implementation of driving.SourceService.
// Writes are recorded so tests can assert what commands sent.
type mockSourceService struct {
	added    []domain.Source
	statuses map[string]domain.SourceStatus
	removed  []string
}

func (m *mockSourceService) Add(_ context.Context, source domain.Source) (*domain.Source, error) {
	m.added = append(m.added, source)
	source.ID = "source-123"
	if source.TenantID == "" {
		source.TenantID = "default"
	}
	if source.Status == "" {
		source.Status = domain.SourceStatusPending
	}
	now := time.Now()
	source.CreatedAt = now
	source.UpdatedAt = now
	return &source, nil
}

func (m *mockSourceService) Get(_ context.Context, id string) (*domain.Source, error) {
	source := testDocumentSource()
	source.ID = id
	return &source, nil
}

func (m *mockSourceService) List(_ context.Context, _ string) ([]domain.Source, error) {
	return []domain.Source{testDocumentSource(), testURLSource()}, nil
}

func (m *mockSourceService) Update(_ context.Context, _ domain.Source) error {
	return nil
}

func (m *mockSourceService) Remove(_ context.Context, id string) error {
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockSourceService) SetStatus(_ context.Context, id string, status domain.SourceStatus, _ string) error {
	if m.statuses == nil {
		m.statuses = make(map[string]domain.SourceStatus)
	}
	m.statuses[id] = status
	return nil
}

func (m *mockSourceService) RefreshStats(_ context.Context, id string) (*domain.Source, error) {
	source := testDocumentSource()
	source.ID = id
	return &source, nil
}

// mockSourceServiceEmpty has no configured sources.
type mockSourceServiceEmpty struct {
	mockSourceService
}

func (m *mockSourceServiceEmpty) List(_ context.Context, _ string) ([]domain.Source, error) {
	return nil, nil
}

// mockSourceServiceURL resolves every ID to a url source.
type mockSourceServiceURL struct {
	mockSourceService
}

func (m *mockSourceServiceURL) Get(_ context.Context, id string) (*domain.Source, error) {
	source := testURLSource()
	source.ID = id
	return &source, nil
}

// mockSourceServiceNoRoot resolves every ID to a document source that
// has never been ingested from disk.
type mockSourceServiceNoRoot struct {
	mockSourceService
}

func (m *mockSourceServiceNoRoot) Get(_ context.Context, id string) (*domain.Source, error) {
	source := testDocumentSource()
	source.ID = id
	source.Metadata = nil
	return &source, nil
}

// mockSourceServiceError fails every operation.
type mockSourceServiceError struct{}

func (m *mockSourceServiceError) Add(_ context.Context, _ domain.Source) (*domain.Source, error) {
	return nil, errMockService
}

func (m *mockSourceServiceError) Get(_ context.Context, _ string) (*domain.Source, error) {
	return nil, errMockService
}

func (m *mockSourceServiceError) List(_ context.Context, _ string) ([]domain.Source, error) {
	return nil, errMockService
}

func (m *mockSourceServiceError) Update(_ context.Context, _ domain.Source) error {
	return errMockService
}

func (m *mockSourceServiceError) Remove(_ context.Context, _ string) error {
	return errMockService
}

func (m *mockSourceServiceError) SetStatus(_ context.Context, _ string, _ domain.SourceStatus, _ string) error {
	return errMockService
}

func (m *mockSourceServiceError) RefreshStats(_ context.Context, _ string) (*domain.Source, error) {
	return nil, errMockService
}

// mockSettingsService serves a fixed, fully configured setup.
type mockSettingsService struct{}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	settings.Embedding.APIKey = "sk-corpora-test-0042"
	return &settings, nil
}

func (m *mockSettingsService) Save(_ *domain.Settings) error {
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.EmbeddingProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) SetChunking(_ domain.ChunkingSettings) error {
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsService) Validate() error {
	return nil
}

// mockSettingsServiceInvalid serves settings that fail validation.
type mockSettingsServiceInvalid struct {
	mockSettingsService
}

func (m *mockSettingsServiceInvalid) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	return &settings, nil
}

func (m *mockSettingsServiceInvalid) Validate() error {
	return errors.New("provider openai requires an API key")
}

// mockSettingsServiceError fails every operation.
type mockSettingsServiceError struct{}

func (m *mockSettingsServiceError) Get() (*domain.Settings, error) {
	return nil, errMockService
}

func (m *mockSettingsServiceError) Save(_ *domain.Settings) error {
	return errMockService
}

func (m *mockSettingsServiceError) SetEmbeddingProvider(_ domain.EmbeddingProvider, _, _ string) error {
	return errMockService
}

func (m *mockSettingsServiceError) SetChunking(_ domain.ChunkingSettings) error {
	return errMockService
}

func (m *mockSettingsServiceError) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsServiceError) Validate() error {
	return errMockService
}
