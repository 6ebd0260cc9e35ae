package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmptyRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://localhost:8000/api/v2/heartbeat", nil)
	require.NoError(t, err)
	return req
}

func TestApplyAuth(t *testing.T) {
	tests := []struct {
		name        string
		auth        AuthMethod
		wantHeader  string
		wantValue   string
		wantNoAuthz bool
	}{
		{
			name:       "basic auth",
			auth:       BasicAuth{Username: "alice", Password: "secret"},
			wantHeader: "Authorization",
			wantValue:  "Basic YWxpY2U6c2VjcmV0",
		},
		{
			name:       "bearer token",
			auth:       TokenAuth{Token: "tok123", Header: TokenHeaderAuthorization},
			wantHeader: "Authorization",
			wantValue:  "Bearer tok123",
		},
		{
			name:        "x-chroma-token",
			auth:        TokenAuth{Token: "tok123", Header: TokenHeaderXChromaToken},
			wantHeader:  "X-Chroma-Token",
			wantValue:   "tok123",
			wantNoAuthz: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newEmptyRequest(t)
			applyAuth(req, tt.auth)

			assert.Equal(t, tt.wantValue, req.Header.Get(tt.wantHeader))
			if tt.wantNoAuthz {
				assert.Empty(t, req.Header.Get("Authorization"))
			}
			// Exactly one header is ever applied.
			assert.Len(t, req.Header, 1)
		})
	}
}

func TestApplyAuthNone(t *testing.T) {
	req := newEmptyRequest(t)
	applyAuth(req, NoAuth{})
	assert.Empty(t, req.Header)

	req = newEmptyRequest(t)
	applyAuth(req, nil)
	assert.Empty(t, req.Header)
}

func TestTokenAuthDefaultsToBearer(t *testing.T) {
	req := newEmptyRequest(t)
	applyAuth(req, TokenAuth{Token: "tok123"})
	assert.Equal(t, "Bearer tok123", req.Header.Get("Authorization"))
}
