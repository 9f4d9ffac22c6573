package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// TokenSource provides the response token to present and can drop it once
// the verifier refuses it. *service.Session implements it.
type TokenSource interface {
	ResponseToken(ctx context.Context) (string, error)
	Invalidate()
}

// Transport is an http.RoundTripper adding a DID-Auth response token to
// every request. A 401 answer invalidates the token so the next request
// runs a new handshake; the failed request itself is not retried.
type Transport struct {
	Source TokenSource
	Base   http.RoundTripper
}

// NewTransport wraps base (http.DefaultTransport when nil)
func NewTransport(source TokenSource, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Source: source, Base: base}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Source.ResponseToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to obtain DID-Auth token: %w", err)
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.Base.RoundTrip(r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		t.Source.Invalidate()
	}
	return resp, nil
}
