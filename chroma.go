package chroma

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/soundprediction/go-chroma/pkg/api"
	"github.com/soundprediction/go-chroma/pkg/embedder"
)

// Defaults applied by NewClient when the corresponding option is zero.
const (
	DefaultEndpoint       = "http://localhost:8000"
	DefaultTenant         = "default_tenant"
	DefaultDatabase       = "default_database"
	DefaultMaxConnections = 8
)

// Options configures a Client.
type Options struct {
	// URL is the Chroma server base URL, without the /api suffix.
	URL string

	// Auth is the authentication method for every request. Nil means no
	// authentication.
	Auth api.AuthMethod

	// Tenant scopes the client. When empty and credentials are set, the
	// tenant is resolved from the server's identity endpoint before the
	// client is constructed.
	Tenant string

	// Database scopes the client within the tenant.
	Database string

	// MaxConnections caps the client handle pool. Handles are allocated
	// lazily up to this limit; requests beyond it wait for a free handle.
	MaxConnections int

	// Embedder, when set, is used by collections to embed documents and
	// query texts that arrive without embeddings.
	Embedder embedder.Client

	// Logger receives debug-level request logs. Nil uses slog.Default.
	Logger *slog.Logger
}

// Client is a Chroma client scoped to one tenant and database. It is safe
// for concurrent use; requests are serialized through a bounded pool of
// reusable connection handles.
type Client struct {
	api      *api.Client
	embedder embedder.Client
	logger   *slog.Logger
}

// NewClient connects a client to a Chroma server. When no tenant is given
// and credentials are present, the tenant is resolved from the credentials
// via the identity endpoint; a resolution failure aborts construction.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.URL == "" {
		opts.URL = DefaultEndpoint
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = DefaultMaxConnections
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tenant == "" {
		if hasCredentials(opts.Auth) {
			identity, err := api.ResolveIdentity(ctx, opts.URL, opts.Auth)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve identity: %w", err)
			}
			opts.Tenant = identity.Tenant
			opts.Logger.Debug("resolved tenant from credentials", "tenant", identity.Tenant, "databases", identity.Databases)
		} else {
			opts.Tenant = DefaultTenant
		}
	}

	return &Client{
		api:      api.NewClient(opts.URL, opts.Auth, opts.Tenant, opts.Database, opts.MaxConnections, opts.Logger),
		embedder: opts.Embedder,
		logger:   opts.Logger,
	}, nil
}

func hasCredentials(auth api.AuthMethod) bool {
	if auth == nil {
		return false
	}
	_, none := auth.(api.NoAuth)
	return !none
}

// Tenant returns the tenant this client is scoped to.
func (c *Client) Tenant() string { return c.api.Tenant() }

// Database returns the database this client is scoped to.
func (c *Client) Database() string { return c.api.Database() }

// Heartbeat pings the server and returns its nanosecond heartbeat.
func (c *Client) Heartbeat(ctx context.Context) (int64, error) {
	resp, err := c.api.GetV1(ctx, "/heartbeat")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var beat map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&beat); err != nil {
		return 0, fmt.Errorf("failed to decode heartbeat response: %w", err)
	}
	return beat["nanosecond heartbeat"], nil
}

// Version returns the server version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.api.GetV1(ctx, "/version")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var version string
	if err := json.NewDecoder(resp.Body).Decode(&version); err != nil {
		return "", fmt.Errorf("failed to decode version response: %w", err)
	}
	return version, nil
}

// collectionPayload is the wire form of a collection.
type collectionPayload struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CreateCollection creates a new collection. It fails if a collection with
// the same name already exists.
func (c *Client) CreateCollection(ctx context.Context, name string, metadata map[string]any) (*Collection, error) {
	return c.createCollection(ctx, name, metadata, false)
}

// GetOrCreateCollection returns the named collection, creating it first if
// it does not exist.
func (c *Client) GetOrCreateCollection(ctx context.Context, name string, metadata map[string]any) (*Collection, error) {
	return c.createCollection(ctx, name, metadata, true)
}

func (c *Client) createCollection(ctx context.Context, name string, metadata map[string]any, getOrCreate bool) (*Collection, error) {
	body := map[string]any{
		"name":          name,
		"get_or_create": getOrCreate,
	}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}

	resp, err := c.api.PostDatabase(ctx, "/collections", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload collectionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode collection response: %w", err)
	}
	return c.newCollection(payload), nil
}

// GetCollection returns an existing collection by name.
func (c *Client) GetCollection(ctx context.Context, name string) (*Collection, error) {
	resp, err := c.api.GetDatabase(ctx, "/collections/"+name)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload collectionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode collection response: %w", err)
	}
	return c.newCollection(payload), nil
}

// ListCollections returns all collections in the client's database.
func (c *Client) ListCollections(ctx context.Context) ([]*Collection, error) {
	resp, err := c.api.GetDatabase(ctx, "/collections")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payloads []collectionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("failed to decode collections response: %w", err)
	}

	collections := make([]*Collection, len(payloads))
	for i, payload := range payloads {
		collections[i] = c.newCollection(payload)
	}
	return collections, nil
}

// DeleteCollection deletes a collection and all of its entries.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	resp, err := c.api.DeleteDatabase(ctx, "/collections/"+name)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) newCollection(payload collectionPayload) *Collection {
	return &Collection{
		ID:       payload.ID,
		Name:     payload.Name,
		Metadata: payload.Metadata,
		api:      c.api,
		embedder: c.embedder,
	}
}
