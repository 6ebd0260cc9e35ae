package embedder

import "context"

// Client generates vector embeddings for text.
type Client interface {
	// Embed generates embeddings for the given texts, one vector per text,
	// in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embeddings.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common embedder configuration.
type Config struct {
	// Model is the embedding model identifier.
	Model string

	// BaseURL overrides the provider endpoint for OpenAI-compatible
	// services. Empty means the provider default.
	BaseURL string

	// Dimensions overrides the embedding dimensionality when the model
	// accepts one; zero means the model default.
	Dimensions int
}
