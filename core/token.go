package core

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RequestToken is a decoded, signed DID-Auth challenge. Decoding does not
// verify the signature.
type RequestToken struct {
	raw       string
	signature string
	payload   RequestPayload
}

// NewRequestToken wraps a decoded request token. raw must be the exact string
// the payload was decoded from.
func NewRequestToken(raw, signature string, payload RequestPayload) *RequestToken {
	return &RequestToken{raw: raw, signature: signature, payload: payload}
}

func (t *RequestToken) String() string    { return t.raw }
func (t *RequestToken) Signature() string { return t.signature }
func (t *RequestToken) Issuer() string    { return NormalizeDID(t.payload.Issuer) }
func (t *RequestToken) RawIssuer() string { return t.payload.Issuer }
func (t *RequestToken) Audience() string  { return NormalizeDID(t.payload.Audience) }
func (t *RequestToken) KeyID() string     { return t.payload.KeyID }
func (t *RequestToken) ID() string        { return t.payload.ID }
func (t *RequestToken) CreatedAt() int64  { return t.payload.CreatedAt }

// ExpiresAt reports the exp claim; ok is false when the token has none.
func (t *RequestToken) ExpiresAt() (exp int64, ok bool) {
	return t.payload.ExpiresAt, t.payload.ExpiresAt != 0
}

// SessionID identifies the session opened by answering this challenge.
func (t *RequestToken) SessionID() string {
	if t.payload.ID != "" {
		return t.payload.ID
	}
	sum := sha256.Sum256([]byte(t.raw))
	return hex.EncodeToString(sum[:])
}

// ResponseToken is a decoded, signed answer to a RequestToken.
type ResponseToken struct {
	raw       string
	signature string
	payload   ResponsePayload
	request   *RequestToken
}

// NewResponseToken wraps a decoded response token together with the request
// token decoded from its requestToken claim.
func NewResponseToken(raw, signature string, payload ResponsePayload, request *RequestToken) *ResponseToken {
	return &ResponseToken{raw: raw, signature: signature, payload: payload, request: request}
}

func (t *ResponseToken) String() string              { return t.raw }
func (t *ResponseToken) Signature() string           { return t.signature }
func (t *ResponseToken) Issuer() string              { return NormalizeDID(t.payload.Issuer) }
func (t *ResponseToken) RawIssuer() string           { return t.payload.Issuer }
func (t *ResponseToken) Audience() string            { return NormalizeDID(t.payload.Audience) }
func (t *ResponseToken) KeyID() string               { return t.payload.KeyID }
func (t *ResponseToken) CreatedAt() int64            { return t.payload.CreatedAt }
func (t *ResponseToken) RequestToken() *RequestToken { return t.request }

func (t *ResponseToken) ExpiresAt() (exp int64, ok bool) {
	return t.payload.ExpiresAt, t.payload.ExpiresAt != 0
}

// Session describes the session this response token authenticates.
func (t *ResponseToken) Session() *Session {
	s := &Session{
		ID:       t.request.SessionID(),
		DID:      t.Issuer(),
		Verifier: t.request.Issuer(),
		IssuedAt: time.UnixMilli(t.payload.CreatedAt),
	}
	if exp, ok := t.request.ExpiresAt(); ok {
		s.ExpiresAt = time.UnixMilli(exp)
	}
	return s
}
