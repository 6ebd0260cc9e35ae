// Package chroma provides a Go client for the Chroma vector database.
//
// The client speaks Chroma's HTTP API through a bounded pool of reusable
// connection handles, so any number of goroutines can share one Client: at
// most MaxConnections requests are on the wire at once and the rest wait
// for a free handle.
//
// # Basic Usage
//
//	client, err := chroma.NewClient(ctx, chroma.Options{
//	    URL:  "http://localhost:8000",
//	    Auth: api.TokenAuth{Token: token, Header: api.TokenHeaderXChromaToken},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	collection, err := client.GetOrCreateCollection(ctx, "documents", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = collection.Add(ctx, chroma.Entries{
//	    IDs:        []string{"doc1"},
//	    Documents:  []string{"Once upon a time there was a frog"},
//	    Embeddings: [][]float32{{0.1, 0.2, 0.3}},
//	})
//
// # Embedders
//
// Configure an embedder to let collections embed documents and query texts
// themselves:
//
//	emb := embedder.NewOpenAIEmbedder(apiKey, embedder.Config{
//	    Model: "text-embedding-3-small",
//	})
//	client, err := chroma.NewClient(ctx, chroma.Options{Embedder: emb})
//
// # Errors
//
// Non-success responses surface as *api.APIError carrying the status code,
// reason phrase and response body text; transport failures propagate as
// wrapped errors. The client never retries.
package chroma
