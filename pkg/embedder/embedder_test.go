package embedder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundprediction/go-chroma/pkg/embedder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEmbedder(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		config embedder.Config
	}{
		{
			name:   "default model",
			apiKey: "test-api-key",
			config: embedder.Config{},
		},
		{
			name:   "explicit model",
			apiKey: "test-api-key",
			config: embedder.Config{Model: "text-embedding-3-large"},
		},
		{
			name:   "custom base URL",
			apiKey: "test-api-key",
			config: embedder.Config{Model: "text-embedding-ada-002", BaseURL: "https://api.example.com/v1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := embedder.NewOpenAIEmbedder(tt.apiKey, tt.config)
			assert.NotNil(t, client)
			assert.Greater(t, client.Dimensions(), 0)
		})
	}
}

func TestEmbedderInterface(t *testing.T) {
	var _ embedder.Client = (*embedder.OpenAIEmbedder)(nil)
	var _ embedder.Client = (*embedder.EmbedEverythingClient)(nil)
}

func TestOpenAIEmbedderDimensionOverride(t *testing.T) {
	client := embedder.NewOpenAIEmbedder("test-key", embedder.Config{
		Model:      "text-embedding-3-small",
		Dimensions: 256,
	})
	assert.Equal(t, 256, client.Dimensions())
}

func TestOpenAIEmbedderEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float32{0.1, 0.2}},
				{"object": "embedding", "index": 1, "embedding": []float32{0.3, 0.4}},
			},
		})
	}))
	defer server.Close()

	client := embedder.NewOpenAIEmbedder("test-key", embedder.Config{
		BaseURL: server.URL + "/v1",
	})

	embeddings, err := client.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])
}

func TestOpenAIEmbedderEmbedEmptyInput(t *testing.T) {
	client := embedder.NewOpenAIEmbedder("test-key", embedder.Config{})
	embeddings, err := client.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestEmbedEverythingClient(t *testing.T) {
	t.Skip("Skip integration test - downloads a local model")

	client, err := embedder.NewEmbedEverythingClient(embedder.Config{
		Model:      "all-MiniLM-L6-v2",
		Dimensions: 384,
	})
	require.NoError(t, err)
	defer client.Close()

	vec, err := client.EmbedSingle(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Len(t, vec, 384)
}
