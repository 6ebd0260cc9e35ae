// Package embedder provides text embedding clients used to turn documents
// and queries into vectors before they are sent to Chroma.
//
// This package defines the Client interface and provides implementations for
// OpenAI and for local sentence-transformer models via EmbedEverything.
//
// # Usage
//
//	// Remote, via OpenAI
//	emb := embedder.NewOpenAIEmbedder(apiKey, embedder.Config{
//	    Model: "text-embedding-3-small",
//	})
//
//	// Local, via EmbedEverything
//	emb, err := embedder.NewEmbedEverythingClient(embedder.Config{
//	    Model: "all-MiniLM-L6-v2",
//	})
//
//	embeddings, err := emb.Embed(ctx, []string{"hello world"})
//
// Collections accept a Client and call it whenever entries carry documents
// but no embeddings.
package embedder
