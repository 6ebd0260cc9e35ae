package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// UserIdentity is the tenant and database scope the server resolves for a
// set of credentials.
type UserIdentity struct {
	Tenant    string   `json:"tenant"`
	Databases []string `json:"databases"`
}

// ResolveIdentity hits the auth endpoint to resolve tenant and databases
// prior to constructing a pool-backed client. It uses a single ad-hoc handle
// because it runs before any tenant/database-scoped pool exists.
//
// On failure the caller must not proceed to construct a scoped client.
func ResolveIdentity(ctx context.Context, endpoint string, auth AuthMethod) (*UserIdentity, error) {
	url := endpoint + "/api/v2/auth/identity"

	resp, err := sendRequest(ctx, newHandle(), http.MethodGet, url, auth, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var identity UserIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	return &identity, nil
}
