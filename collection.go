package chroma

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/soundprediction/go-chroma/pkg/api"
	"github.com/soundprediction/go-chroma/pkg/embedder"
)

// Collection is a named set of embedded entries within a database. Record
// operations are addressed by the collection's server-assigned ID.
type Collection struct {
	ID       string
	Name     string
	Metadata map[string]any

	api      *api.Client
	embedder embedder.Client
}

// Entries is a batch of records for Add, Upsert and Update.
//
// IDs may be nil, in which case a UUID is generated per entry. Embeddings
// may be nil when Documents are present and the client was configured with
// an embedder; the documents are embedded on the caller's behalf. All
// non-nil fields must have the same length.
type Entries struct {
	IDs        []string
	Embeddings [][]float32
	Metadatas  []map[string]any
	Documents  []string
}

// GetOptions filters a Get.
type GetOptions struct {
	IDs           []string
	Where         map[string]any
	WhereDocument map[string]any
	Limit         int
	Offset        int
	Include       []string
}

// GetResult holds the entries returned by Get, parallel by index.
type GetResult struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings,omitempty"`
	Documents  []string         `json:"documents,omitempty"`
	Metadatas  []map[string]any `json:"metadatas,omitempty"`
}

// QueryOptions configures a nearest-neighbor Query. Exactly one of
// QueryTexts and QueryEmbeddings must be set; texts require a configured
// embedder.
type QueryOptions struct {
	QueryTexts      []string
	QueryEmbeddings [][]float32
	NResults        int
	Where           map[string]any
	WhereDocument   map[string]any
	Include         []string
}

// QueryResult holds one result set per query, parallel by index.
type QueryResult struct {
	IDs        [][]string         `json:"ids"`
	Distances  [][]float32        `json:"distances,omitempty"`
	Documents  [][]string         `json:"documents,omitempty"`
	Metadatas  [][]map[string]any `json:"metadatas,omitempty"`
	Embeddings [][][]float32      `json:"embeddings,omitempty"`
}

// DeleteOptions selects the entries removed by Delete.
type DeleteOptions struct {
	IDs           []string
	Where         map[string]any
	WhereDocument map[string]any
}

// Add inserts new entries into the collection. Adding an existing ID fails
// on the server side.
func (c *Collection) Add(ctx context.Context, entries Entries) error {
	return c.submit(ctx, "/add", entries)
}

// Upsert inserts new entries and overwrites existing ones by ID.
func (c *Collection) Upsert(ctx context.Context, entries Entries) error {
	return c.submit(ctx, "/upsert", entries)
}

// Update rewrites existing entries by ID. IDs are required; missing
// embeddings are filled from documents like Add.
func (c *Collection) Update(ctx context.Context, entries Entries) error {
	if len(entries.IDs) == 0 {
		return fmt.Errorf("update requires entry IDs")
	}
	return c.submit(ctx, "/update", entries)
}

func (c *Collection) submit(ctx context.Context, op string, entries Entries) error {
	body, err := c.prepare(ctx, entries)
	if err != nil {
		return err
	}
	resp, err := c.api.PostDatabase(ctx, "/collections/"+c.ID+op, body)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// prepare validates a batch, fills missing embeddings from documents and
// missing IDs with UUIDs, and shapes the wire payload.
func (c *Collection) prepare(ctx context.Context, entries Entries) (map[string]any, error) {
	embeddings := entries.Embeddings
	if embeddings == nil {
		if len(entries.Documents) == 0 {
			return nil, fmt.Errorf("entries need embeddings or documents")
		}
		if c.embedder == nil {
			return nil, fmt.Errorf("entries have documents but no embeddings and no embedder is configured")
		}
		var err error
		embeddings, err = c.embedder.Embed(ctx, entries.Documents)
		if err != nil {
			return nil, fmt.Errorf("failed to embed documents: %w", err)
		}
	}

	count := len(embeddings)
	if count == 0 {
		return nil, fmt.Errorf("entries are empty")
	}
	if entries.Documents != nil && len(entries.Documents) != count {
		return nil, fmt.Errorf("got %d documents for %d embeddings", len(entries.Documents), count)
	}
	if entries.Metadatas != nil && len(entries.Metadatas) != count {
		return nil, fmt.Errorf("got %d metadatas for %d embeddings", len(entries.Metadatas), count)
	}

	ids := entries.IDs
	switch {
	case ids == nil:
		ids = make([]string, count)
		for i := range ids {
			ids[i] = uuid.NewString()
		}
	case len(ids) != count:
		return nil, fmt.Errorf("got %d IDs for %d embeddings", len(ids), count)
	}

	body := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
	}
	if entries.Documents != nil {
		body["documents"] = entries.Documents
	}
	if entries.Metadatas != nil {
		body["metadatas"] = entries.Metadatas
	}
	return body, nil
}

// Get retrieves entries matching the options.
func (c *Collection) Get(ctx context.Context, opts GetOptions) (*GetResult, error) {
	body := map[string]any{}
	if opts.IDs != nil {
		body["ids"] = opts.IDs
	}
	if opts.Where != nil {
		body["where"] = opts.Where
	}
	if opts.WhereDocument != nil {
		body["where_document"] = opts.WhereDocument
	}
	if opts.Limit > 0 {
		body["limit"] = opts.Limit
	}
	if opts.Offset > 0 {
		body["offset"] = opts.Offset
	}
	if opts.Include != nil {
		body["include"] = opts.Include
	}

	resp, err := c.api.PostDatabase(ctx, "/collections/"+c.ID+"/get", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result GetResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode get response: %w", err)
	}
	return &result, nil
}

// Query runs a nearest-neighbor search. Query texts are embedded with the
// configured embedder when no query embeddings are given.
func (c *Collection) Query(ctx context.Context, opts QueryOptions) (*QueryResult, error) {
	queryEmbeddings := opts.QueryEmbeddings
	if queryEmbeddings == nil {
		if len(opts.QueryTexts) == 0 {
			return nil, fmt.Errorf("query needs query texts or query embeddings")
		}
		if c.embedder == nil {
			return nil, fmt.Errorf("query has texts but no embeddings and no embedder is configured")
		}
		var err error
		queryEmbeddings, err = c.embedder.Embed(ctx, opts.QueryTexts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query texts: %w", err)
		}
	}

	nResults := opts.NResults
	if nResults <= 0 {
		nResults = 10
	}

	body := map[string]any{
		"query_embeddings": queryEmbeddings,
		"n_results":        nResults,
	}
	if opts.Where != nil {
		body["where"] = opts.Where
	}
	if opts.WhereDocument != nil {
		body["where_document"] = opts.WhereDocument
	}
	if opts.Include != nil {
		body["include"] = opts.Include
	}

	resp, err := c.api.PostDatabase(ctx, "/collections/"+c.ID+"/query", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &result, nil
}

// Delete removes the entries selected by the options and returns the IDs of
// the deleted entries.
func (c *Collection) Delete(ctx context.Context, opts DeleteOptions) ([]string, error) {
	body := map[string]any{}
	if opts.IDs != nil {
		body["ids"] = opts.IDs
	}
	if opts.Where != nil {
		body["where"] = opts.Where
	}
	if opts.WhereDocument != nil {
		body["where_document"] = opts.WhereDocument
	}

	resp, err := c.api.PostDatabase(ctx, "/collections/"+c.ID+"/delete", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var deleted []string
	if err := json.NewDecoder(resp.Body).Decode(&deleted); err != nil {
		return nil, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return deleted, nil
}

// Count returns the number of entries in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	resp, err := c.api.GetDatabase(ctx, "/collections/"+c.ID+"/count")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return count, nil
}
