package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/memory"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Embedding.Model, settings.Embedding.Model)
	assert.Empty(t, settings.Embedding.APIKey)
	assert.Equal(t, defaults.Chunking, settings.Chunking)
	assert.Equal(t, "default", settings.DefaultTenant)
	assert.InDelta(t, defaults.MinSimilarity, settings.MinSimilarity, 1e-9)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	want := &domain.Settings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.ProviderOllama,
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize:    500,
			Overlap:      100,
			MinChunkSize: 25,
		},
		DefaultTenant: "team-a",
		MinSimilarity: 0.45,
	}

	require.NoError(t, service.Save(want))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, want.Embedding, got.Embedding)
	assert.Equal(t, want.Chunking, got.Chunking)
	assert.Equal(t, "team-a", got.DefaultTenant)
	assert.InDelta(t, 0.45, got.MinSimilarity, 1e-9)
}

func TestSettingsService_SaveRoundTrip_ZeroOverlapSurvives(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()
	require.NoError(t, err)
	settings.Chunking.Overlap = 0
	require.NoError(t, service.Save(settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Zero(t, got.Chunking.Overlap)
}

func TestSettingsService_Get_IgnoresUnknownProvider(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("embedding.provider", "carrier-pigeon"))
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOpenAI, settings.Embedding.Provider)
}

func TestSettingsService_SetEmbeddingProvider_OpenAI(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	err := service.SetEmbeddingProvider(domain.ProviderOpenAI, "", "sk-test")
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Empty(t, settings.Embedding.BaseURL)
}

func TestSettingsService_SetEmbeddingProvider_OpenAIRequiresKey(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetEmbeddingProvider(domain.ProviderOpenAI, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")
}

func TestSettingsService_SetEmbeddingProvider_Ollama(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetEmbeddingProvider(domain.ProviderOllama, "", "")
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
}

func TestSettingsService_SetEmbeddingProvider_ExplicitModel(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetEmbeddingProvider(domain.ProviderOllama, "mxbai-embed-large", "")
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "mxbai-embed-large", settings.Embedding.Model)
}

func TestSettingsService_SetEmbeddingProvider_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetEmbeddingProvider("carrier-pigeon", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid embedding provider")
}

func TestSettingsService_SetChunking(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetChunking(domain.ChunkingSettings{
		ChunkSize:    800,
		Overlap:      80,
		MinChunkSize: 40,
	})
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 800, settings.Chunking.ChunkSize)
	assert.Equal(t, 80, settings.Chunking.Overlap)
	assert.Equal(t, 40, settings.Chunking.MinChunkSize)
}

func TestSettingsService_SetChunking_RejectsInvalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetChunking(domain.ChunkingSettings{ChunkSize: 100, Overlap: 100})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	// The stored settings are untouched
	settings, getErr := service.Get()
	require.NoError(t, getErr)
	assert.Equal(t, domain.DefaultSettings().Chunking, settings.Chunking)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	defaults := service.GetDefaults()
	assert.Equal(t, domain.DefaultSettings(), defaults)
}

func TestSettingsService_Validate(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	// Defaults use OpenAI without a key, which is not usable as-is
	err := service.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not fully configured")

	// Ollama needs no credential
	require.NoError(t, service.SetEmbeddingProvider(domain.ProviderOllama, "", ""))
	assert.NoError(t, service.Validate())
}

func TestSettingsService_Validate_MinSimilarityRange(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.SetEmbeddingProvider(domain.ProviderOllama, "", ""))

	require.NoError(t, store.Set("general.min_similarity", 150))

	err := service.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min similarity")
}

func TestSettingsService_MinSimilarityStoredAsPercentage(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)
	settings.MinSimilarity = 0.72
	require.NoError(t, service.Save(settings))

	raw, ok := store.Get("general.min_similarity")
	require.True(t, ok)
	assert.Equal(t, 72, raw)

	got, err := service.Get()
	require.NoError(t, err)
	assert.InDelta(t, 0.72, got.MinSimilarity, 1e-9)
}
