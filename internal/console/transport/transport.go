// Package transport implements the request authorizer: an http.RoundTripper
// wrapping the backend transport that attaches the bearer credential to
// every outgoing request and watches responses for authorization failures.
//
// This is the single chokepoint where credential expiry is detected; no
// other component polls the backend for it.
package transport

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"logdeck/internal/logging"
)

// TokenSource is a synchronous credential peek. Satisfied by
// *session.Session. The peek must never block the request pipeline.
type TokenSource interface {
	Token() string
}

// Authorizer is the authorizing RoundTripper. It reads session state but
// never mutates it directly; authorization failures are reported through
// the injected hook, which the wiring points at the auth gateway's logout.
type Authorizer struct {
	base   http.RoundTripper
	tokens TokenSource
	log    logging.Logger

	mu            sync.Mutex
	onAuthFailure func()
}

// New wraps base (http.DefaultTransport when nil) with credential
// attachment and failure observation.
func New(base http.RoundTripper, tokens TokenSource, log logging.Logger) *Authorizer {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Authorizer{base: base, tokens: tokens, log: log}
}

// OnAuthFailure registers the hook invoked after a 401/403 response. The
// hook runs as a side effect; the response is still returned unchanged to
// the caller.
func (a *Authorizer) OnAuthFailure(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onAuthFailure = fn
}

// RoundTrip implements http.RoundTripper.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	out := req.Clone(req.Context())

	if token := a.tokens.Token(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get("X-Request-Id") == "" {
		out.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := a.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		a.log.Warn(req.Context(), "authorization rejected by backend, clearing session",
			"status", resp.StatusCode,
			"path", req.URL.Path)
		a.mu.Lock()
		hook := a.onAuthFailure
		a.mu.Unlock()
		if hook != nil {
			hook()
		}
	}

	return resp, nil
}
