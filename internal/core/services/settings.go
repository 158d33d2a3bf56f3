package services

import (
	"fmt"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyChunkSize     = "chunking.chunk_size"
	keyChunkOverlap  = "chunking.overlap"
	keyChunkMinSize  = "chunking.min_chunk_size"
	keyDefaultTenant = "general.default_tenant"
	keyMinSimilarity = "general.min_similarity"
)

// minSimilarityScale converts the similarity floor to an integer
// percentage for storage.
const minSimilarityScale = 100

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize:    s.getInt(keyChunkSize, defaults.Chunking.ChunkSize),
			Overlap:      s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
			MinChunkSize: s.getIntAllowZero(keyChunkMinSize, defaults.Chunking.MinChunkSize),
		},
		DefaultTenant: s.getString(keyDefaultTenant, defaults.DefaultTenant),
		MinSimilarity: s.getMinSimilarity(defaults.MinSimilarity),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, string(settings.Embedding.Provider)); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save chunking settings
	if err := s.configStore.Set(keyChunkSize, settings.Chunking.ChunkSize); err != nil {
		return fmt.Errorf("save chunk size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunking.Overlap); err != nil {
		return fmt.Errorf("save chunk overlap: %w", err)
	}
	if err := s.configStore.Set(keyChunkMinSize, settings.Chunking.MinChunkSize); err != nil {
		return fmt.Errorf("save min chunk size: %w", err)
	}

	// Save general settings
	if err := s.configStore.Set(keyDefaultTenant, settings.DefaultTenant); err != nil {
		return fmt.Errorf("save default tenant: %w", err)
	}
	if err := s.configStore.Set(keyMinSimilarity, int(settings.MinSimilarity*minSimilarityScale)); err != nil {
		return fmt.Errorf("save min similarity: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or the provider's default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = defaultModelFor(provider)
	}

	// Local providers need a base URL; cloud providers use their own
	if provider == domain.ProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetChunking updates the chunking parameters.
func (s *SettingsService) SetChunking(chunking domain.ChunkingSettings) error {
	if err := chunking.ChunkConfig().Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chunking = chunking
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Validate checks if current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.Provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", settings.Embedding.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %s is not fully configured", settings.Embedding.Provider)
	}
	if err := settings.Chunking.ChunkConfig().Validate(); err != nil {
		return fmt.Errorf("chunking settings: %w", err)
	}
	if settings.MinSimilarity < 0 || settings.MinSimilarity > 1 {
		return fmt.Errorf("min similarity %.2f outside [0, 1]", settings.MinSimilarity)
	}

	return nil
}

// defaultModelFor returns the model used when the caller picks a
// provider without naming one.
func defaultModelFor(provider domain.EmbeddingProvider) string {
	if model, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		return model
	}
	return domain.DefaultSettings().Embedding.Model
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero distinguishes a stored zero from an absent key, so a
// deliberate zero overlap is not replaced by the default.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	val := s.configStore.GetString(keyEmbedProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.EmbeddingProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// getMinSimilarity reads the similarity floor, stored as an integer
// percentage to keep the config file free of float formatting noise.
func (s *SettingsService) getMinSimilarity(defaultVal float64) float64 {
	raw, ok := s.configStore.Get(keyMinSimilarity)
	if !ok {
		return defaultVal
	}
	switch v := raw.(type) {
	case int:
		return float64(v) / minSimilarityScale
	case int64:
		return float64(v) / minSimilarityScale
	case float64:
		if v <= 1 {
			return v
		}
		return v / minSimilarityScale
	default:
		return defaultVal
	}
}
