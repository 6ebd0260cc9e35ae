package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Client dispatches requests to a Chroma server through a bounded pool of
// reusable client handles, scoped to one tenant and database.
//
// Every dispatch borrows exactly one handle for the full round trip and
// returns it on all exit paths, so a saturated pool suspends callers rather
// than failing, and a failed request never shrinks capacity.
type Client struct {
	pool          *clientPool
	apiEndpoint   string
	apiEndpointV1 string
	auth          AuthMethod
	tenant        string
	database      string
	logger        *slog.Logger
}

// NewClient creates a pool-backed API client. The endpoint is the server
// base URL without the /api suffix. maxConnections caps the number of
// handles the pool will ever allocate; handles are created lazily, the pool
// starts empty.
func NewClient(endpoint string, auth AuthMethod, tenant, database string, maxConnections int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		pool:          newClientPool(maxConnections),
		apiEndpoint:   endpoint + "/api/v2",
		apiEndpointV1: endpoint + "/api/v1",
		auth:          auth,
		tenant:        tenant,
		database:      database,
		logger:        logger,
	}
}

// Tenant returns the tenant this client is scoped to.
func (c *Client) Tenant() string { return c.tenant }

// Database returns the database this client is scoped to.
func (c *Client) Database() string { return c.database }

// databaseURL builds a tenant/database-scoped v2 URL. The path must start
// with '/'.
func (c *Client) databaseURL(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("path must start with '/': %q", path)
	}
	return fmt.Sprintf("%s/tenants/%s/databases/%s%s", c.apiEndpoint, c.tenant, c.database, path), nil
}

// GetDatabase issues a GET against a database-scoped path.
func (c *Client) GetDatabase(ctx context.Context, path string) (*http.Response, error) {
	url, err := c.databaseURL(path)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodGet, url, nil)
}

// PostDatabase issues a POST against a database-scoped path with an optional
// JSON body.
func (c *Client) PostDatabase(ctx context.Context, path string, jsonBody any) (*http.Response, error) {
	url, err := c.databaseURL(path)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodPost, url, jsonBody)
}

// PutDatabase issues a PUT against a database-scoped path with an optional
// JSON body.
func (c *Client) PutDatabase(ctx context.Context, path string, jsonBody any) (*http.Response, error) {
	url, err := c.databaseURL(path)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodPut, url, jsonBody)
}

// DeleteDatabase issues a DELETE against a database-scoped path. This does
// not delete the database itself.
func (c *Client) DeleteDatabase(ctx context.Context, path string) (*http.Response, error) {
	url, err := c.databaseURL(path)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodDelete, url, nil)
}

// GetV1 issues a GET against a v1-scoped path such as /heartbeat or
// /version. The path must start with '/'.
func (c *Client) GetV1(ctx context.Context, path string) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("path must start with '/': %q", path)
	}
	return c.send(ctx, http.MethodGet, c.apiEndpointV1+path, nil)
}

// send runs one full dispatch: borrow a handle, perform the round trip,
// return the handle. The deferred release is the no-leak guarantee; it runs
// on success, on transport errors, on classification errors and on
// cancellation mid-flight.
func (c *Client) send(ctx context.Context, method, url string, jsonBody any) (*http.Response, error) {
	handle, err := c.pool.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.pool.release(handle)

	resp, err := sendRequest(ctx, handle, method, url, c.auth, jsonBody)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "url", url, "error", err)
		return nil, err
	}
	c.logger.Debug("request complete", "method", method, "url", url, "status", resp.StatusCode)
	return resp, nil
}

// sendRequest performs a single request/response exchange on the given
// handle, applying auth headers and the optional JSON body, and classifies
// the outcome: a 2xx response is returned live with its body unread, any
// other status is drained and wrapped as an *APIError.
//
// It is shared by the pooled dispatch path and the unpooled identity
// bootstrap.
func sendRequest(ctx context.Context, handle *http.Client, method, url string, auth AuthMethod, jsonBody any) (*http.Response, error) {
	var body io.Reader
	if jsonBody != nil {
		encoded, err := json.Marshal(jsonBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	applyAuth(req, auth)
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := handle.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode/100 == 2 {
		return resp, nil
	}

	defer resp.Body.Close()
	errorText, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read error response: %w", err)
	}
	reason := http.StatusText(resp.StatusCode)
	if reason == "" {
		reason = "Unknown"
	}
	return nil, &APIError{
		Status: resp.StatusCode,
		Reason: reason,
		Body:   string(errorText),
	}
}
