package core

import "time"

// TokenType tags the class of a DID-Auth token.
type TokenType string

const (
	TokenTypeRequest  TokenType = "DidAuthRequest"
	TokenTypeResponse TokenType = "DidAuthResponse"
)

// Payload is an unsigned token body. The signer fills in the issuer and key
// id right before signing.
type Payload interface {
	Type() TokenType
	SetSigner(issuer, keyID string)
}

// RequestPayload is the unsigned body of a request token (the challenge).
type RequestPayload struct {
	ID        string // Session identifier, carried as "jti"
	Issuer    string // DID of the verifier issuing the challenge
	Audience  string // DID expected to answer the challenge
	KeyID     string // Verifier key used for the signature
	CreatedAt int64  // ms epoch
	ExpiresAt int64  // ms epoch, 0 when the token carries no expiry
}

func (p *RequestPayload) Type() TokenType { return TokenTypeRequest }

func (p *RequestPayload) SetSigner(issuer, keyID string) {
	p.Issuer = issuer
	p.KeyID = keyID
}

// ResponsePayload is the unsigned body of a response token.
type ResponsePayload struct {
	Issuer       string // DID of the responder
	Audience     string // Issuer of the answered request token
	KeyID        string // Responder key used for the signature
	CreatedAt    int64  // ms epoch
	ExpiresAt    int64  // ms epoch
	RequestToken string // Raw request token being answered
}

func (p *ResponsePayload) Type() TokenType { return TokenTypeResponse }

func (p *ResponsePayload) SetSigner(issuer, keyID string) {
	p.Issuer = issuer
	p.KeyID = keyID
}

// Session represents a verified DID-Auth session on the verifier side.
type Session struct {
	ID        string    // Request token jti, or its digest when absent
	DID       string    // Normalized DID of the authenticated caller
	Verifier  string    // Normalized DID of the verifier
	IssuedAt  time.Time // Creation time of the response token
	ExpiresAt time.Time // Expiry of the request token bounding the session
}
