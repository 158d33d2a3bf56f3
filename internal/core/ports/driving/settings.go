package driving

import "github.com/corpora-labs/corpora-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error

	// SetChunking updates the chunking parameters.
	SetChunking(chunking domain.ChunkingSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Validate checks if current settings are internally consistent.
	Validate() error
}
