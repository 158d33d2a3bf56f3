package domain

// EmbeddingProvider identifies a vector-embedding backend.
type EmbeddingProvider string

// Available embedding providers.
const (
	// ProviderOpenAI is the OpenAI cloud API.
	ProviderOpenAI EmbeddingProvider = "openai"

	// ProviderOllama is a local Ollama instance.
	ProviderOllama EmbeddingProvider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	return p == ProviderOpenAI || p == ProviderOllama
}

// RequiresAPIKey returns true if the provider needs a credential.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == ProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p EmbeddingProvider) IsLocal() bool {
	return p == ProviderOllama
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI (cloud)"
	case ProviderOllama:
		return "Ollama (local)"
	default:
		return "Unknown"
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		ProviderOpenAI,
		ProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		ProviderOpenAI: "text-embedding-3-small",
		ProviderOllama: "nomic-embed-text",
	}
}

// EmbeddingSettings configures the embedding client.
type EmbeddingSettings struct {
	// Provider selects the backend.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// APIKey is the provider credential, for providers that need one.
	APIKey string

	// BaseURL overrides the provider endpoint (local or compatible APIs).
	BaseURL string
}

// IsConfigured returns true when the settings are usable as-is.
func (s EmbeddingSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds the default chunking parameters applied when a
// format-specific configuration does not override them.
type ChunkingSettings struct {
	// ChunkSize is the token budget per chunk.
	ChunkSize int

	// Overlap is the number of tokens shared between adjacent chunks.
	Overlap int

	// MinChunkSize is the minimum token count for a chunk to survive.
	MinChunkSize int
}

// ChunkConfig expands the settings into a full chunking configuration.
// Structure preservation is always on for settings-derived configs;
// callers wanting a raw token window pass an explicit ChunkConfig.
func (s ChunkingSettings) ChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:          s.ChunkSize,
		Overlap:            s.Overlap,
		MinChunkSize:       s.MinChunkSize,
		PreserveParagraphs: true,
		PreserveSentences:  true,
	}
}

// Settings is the application configuration corpora persists.
type Settings struct {
	// Embedding configures the embedding client.
	Embedding EmbeddingSettings

	// Chunking holds default chunking parameters.
	Chunking ChunkingSettings

	// DefaultTenant is the tenant ID the CLI operates under.
	DefaultTenant string

	// MinSimilarity is the default similarity floor for queries.
	MinSimilarity float64
}

// DefaultSettings returns the configuration used before the user has
// saved anything.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{
			Provider: ProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		Chunking: ChunkingSettings{
			ChunkSize:    1000,
			Overlap:      200,
			MinChunkSize: 50,
		},
		DefaultTenant: "default",
		MinSimilarity: 0.3,
	}
}
