package api

import (
	"encoding/base64"
	"net/http"
)

// TokenHeader selects which header a TokenAuth credential is carried in.
type TokenHeader string

const (
	// TokenHeaderAuthorization sends the token as "Authorization: Bearer <token>".
	TokenHeaderAuthorization TokenHeader = "Authorization"

	// TokenHeaderXChromaToken sends the token as "X-Chroma-Token: <token>".
	TokenHeaderXChromaToken TokenHeader = "X-Chroma-Token"
)

// AuthMethod describes how outgoing requests authenticate against the Chroma
// server. Implementations are immutable after construction and shared
// read-only by every dispatched request.
//
// The set of methods is closed: NoAuth, BasicAuth and TokenAuth.
type AuthMethod interface {
	// apply sets at most one authentication header on the request.
	apply(req *http.Request)
}

// NoAuth performs no authentication. It is the zero-value behavior of a
// client constructed without credentials.
type NoAuth struct{}

func (NoAuth) apply(*http.Request) {}

// BasicAuth authenticates with an HTTP Basic Authorization header.
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) apply(req *http.Request) {
	credentials := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	req.Header.Set("Authorization", "Basic "+credentials)
}

// TokenAuth authenticates with a static API token, carried either as a
// bearer Authorization header or as Chroma's X-Chroma-Token header.
type TokenAuth struct {
	Token  string
	Header TokenHeader
}

func (a TokenAuth) apply(req *http.Request) {
	switch a.Header {
	case TokenHeaderXChromaToken:
		req.Header.Set("X-Chroma-Token", a.Token)
	default:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
}

// applyAuth applies the auth method to the request. A nil method behaves
// like NoAuth so callers can pass credentials through unconditionally.
func applyAuth(req *http.Request, auth AuthMethod) {
	if auth == nil {
		return
	}
	auth.apply(req)
}
