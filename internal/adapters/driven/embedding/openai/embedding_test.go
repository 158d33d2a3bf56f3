package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestNewEmbeddingServiceRequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestNewEmbeddingServiceDefaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
}

func TestNewEmbeddingServiceModelDimensions(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantModel string
		wantDims  int
	}{
		{
			name:      "large model",
			cfg:       Config{APIKey: "k", Model: "text-embedding-3-large"},
			wantModel: "text-embedding-3-large",
			wantDims:  3072,
		},
		{
			name:      "legacy model",
			cfg:       Config{APIKey: "k", Model: "text-embedding-ada-002"},
			wantModel: "text-embedding-ada-002",
			wantDims:  1536,
		},
		{
			name:      "unknown model falls back to default width",
			cfg:       Config{APIKey: "k", Model: "custom-deployment"},
			wantModel: "custom-deployment",
			wantDims:  1536,
		},
		{
			name:      "explicit dimensions win",
			cfg:       Config{APIKey: "k", Model: "text-embedding-3-small", Dimensions: 256},
			wantModel: "text-embedding-3-small",
			wantDims:  256,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewEmbeddingService(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

// capturedRequest mirrors the wire shape of an embeddings request so
// handlers can decode and assert on what the client sent.
type capturedRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

func TestEmbedBatch(t *testing.T) {
	var captured capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		// Indices deliberately out of order to prove results are
		// scattered back by index, not response position.
		json.NewEncoder(w).Encode(goopenai.EmbeddingResponse{
			Object: "list",
			Data: []goopenai.Embedding{
				{Object: "embedding", Embedding: []float32{2, 2}, Index: 1},
				{Object: "embedding", Embedding: []float32{1, 1}, Index: 0},
			},
			Model: goopenai.EmbeddingModel(DefaultModel),
		})
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	vectors, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 1}, vectors[0])
	assert.Equal(t, []float32{2, 2}, vectors[1])

	assert.Equal(t, []string{"first", "second"}, captured.Input)
	assert.Equal(t, DefaultModel, captured.Model)
	assert.Equal(t, 1536, captured.Dimensions)
}

func TestEmbedBatchOmitsDimensionsForLegacyModel(t *testing.T) {
	var captured capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(goopenai.EmbeddingResponse{
			Data: []goopenai.Embedding{{Embedding: []float32{1}, Index: 0}},
		})
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "text-embedding-ada-002",
	})
	require.NoError(t, err)

	_, err = svc.EmbedBatch(context.Background(), []string{"hello"})

	require.NoError(t, err)
	assert.Zero(t, captured.Dimensions)
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(goopenai.EmbeddingResponse{
			Data: []goopenai.Embedding{{Embedding: []float32{0.5, -0.5}, Index: 0}},
		})
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	vector, err := svc.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.5}, vector)
}

func TestEmbedBatchEmpty(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "test-key"})
	require.NoError(t, err)

	vectors, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbedBatchCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(goopenai.EmbeddingResponse{
			Data: []goopenai.Embedding{{Embedding: []float32{1}, Index: 0}},
		})
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.EmbedBatch(context.Background(), []string{"a", "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 embeddings for 2 inputs")
}

func TestEmbedBatchOutOfRangeIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(goopenai.EmbeddingResponse{
			Data: []goopenai.Embedding{{Embedding: []float32{1}, Index: 5}},
		})
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.EmbedBatch(context.Background(), []string{"a"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "out-of-range")
}

func TestEmbedBatchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "bad-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.EmbedBatch(context.Background(), []string{"hello"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai embeddings request")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		w.Write([]byte(`{"object":"list","data":[{"id":"text-embedding-3-small","object":"model"}]}`))
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPingFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "bad-key", BaseURL: srv.URL})
	require.NoError(t, err)

	err = svc.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai ping")
}
