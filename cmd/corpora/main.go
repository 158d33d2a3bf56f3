// Command corpora wires the persistence and embedding adapters to the
// core services and runs the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/cache"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/config/file"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/embedding"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/embedding/ollama"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/embedding/openai"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/fetch"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/sqlite"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/vector"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driving/cli"
	"github.com/corpora-labs/corpora-cli/internal/chunker"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/services"
	"github.com/corpora-labs/corpora-cli/internal/extractors"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/corpora
var version = "dev"

// Embedding provider call budget: requests per second and burst.
const (
	embedRequestsPerSecond = 5
	embedBurst             = 10
)

func main() {
	// A .env file in the working directory can carry OPENAI_API_KEY.
	_ = godotenv.Load()

	os.Exit(run())
}

// run wires everything and executes the command tree. It returns the
// process exit code so deferred closes still run before os.Exit.
func run() int {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open config store: %v\n", err)
		return 1
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load settings: %v\n", err)
		return 1
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open knowledge store: %v\n", err)
		return 1
	}
	defer store.Close()

	embedder, closeEmbedder := buildEmbedder(settings)
	defer closeEmbedder()

	var searcher driven.VectorSearcher
	if embedder != nil {
		searcher = vector.NewScanner(store.EmbeddingStore())
	}

	registry := extractors.NewRegistry(0)
	extractors.RegisterDefaults(registry)

	knowledge := services.NewKnowledgeService(
		store.SourceStore(),
		store.DocumentStore(),
		store.EmbeddingStore(),
		registry,
		chunker.New(),
		embedder,
		searcher,
		fetch.NewFetcher(fetch.Config{}),
	)
	knowledge.SetDefaultTenant(settings.DefaultTenant)
	knowledge.SetDefaultChunking(settings.Chunking.ChunkConfig())

	sources := services.NewSourceService(store.SourceStore(), store.DocumentStore())
	sources.SetDefaultTenant(settings.DefaultTenant)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Knowledge: knowledge,
		Sources:   sources,
		Settings:  settingsService,
	})

	if err := cli.Execute(); err != nil {
		// cobra already printed the error.
		return 1
	}
	return 0
}

// buildEmbedder assembles the embedding client for the configured
// provider, wrapped with the persistent cache and a rate limiter. It
// returns a nil client when no usable provider is configured; the
// knowledge service then serves lexical-only queries and the settings
// command tells the user what is missing.
func buildEmbedder(settings *domain.Settings) (driven.EmbeddingService, func()) {
	noop := func() {}

	cfg := settings.Embedding
	if cfg.Provider.RequiresAPIKey() && cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	var provider driven.EmbeddingService
	switch cfg.Provider {
	case domain.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, noop
		}
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: embedding disabled: %v\n", err)
			return nil, noop
		}
		provider = svc
	case domain.ProviderOllama:
		provider = ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, noop
	}

	clientCfg := embedding.Config{
		Provider: provider,
		Limiter:  rate.NewLimiter(embedRequestsPerSecond, embedBurst),
	}

	cleanup := noop
	if embedCache, err := cache.NewBoltCache(""); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: embedding cache unavailable: %v\n", err)
	} else {
		clientCfg.Cache = embedCache
		cleanup = func() { _ = embedCache.Close() }
	}

	client, err := embedding.New(clientCfg)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "Warning: embedding disabled: %v\n", err)
		return nil, noop
	}
	return client, cleanup
}
