// Package api implements the low-level HTTP layer of the Chroma client: a
// bounded pool of reusable client handles, transparent authentication
// headers, and uniform success/failure classification.
//
// # Dispatch
//
// Every request borrows one handle from the pool for its full round trip and
// returns it on all exit paths. When the pool is empty and at its allocation
// cap, callers suspend until a handle is released; saturation never produces
// an error.
//
// # Authentication
//
// Three methods are supported: NoAuth, BasicAuth and TokenAuth. TokenAuth
// carries the token either as "Authorization: Bearer" or as Chroma's
// "X-Chroma-Token" header.
//
// # Outcomes
//
// A 2xx response is returned live with its body unread. Any other status is
// read in full and returned as an *APIError carrying the status code, its
// canonical reason phrase and the body text. Transport failures propagate
// directly; this package performs no retries.
//
// # Identity bootstrap
//
// ResolveIdentity resolves the caller's tenant and databases from the
// credentials alone, using an unpooled handle, so a scoped client can be
// constructed afterwards.
package api
