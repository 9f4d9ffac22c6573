package tokenizer

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/didauth/core"
)

// RequestClaims is the wire form of a request token payload. Timestamps are
// milliseconds since the epoch, unlike registered JWT claims.
type RequestClaims struct {
	Issuer    string         `json:"iss"`
	Audience  string         `json:"aud"`
	KeyID     string         `json:"kid"`
	ExpiresAt int64          `json:"exp,omitempty"`
	CreatedAt int64          `json:"createdAt"`
	Type      core.TokenType `json:"typ"`
	ID        string         `json:"jti,omitempty"`
}

// ResponseClaims is the wire form of a response token payload.
type ResponseClaims struct {
	Issuer       string         `json:"iss"`
	Audience     string         `json:"aud"`
	KeyID        string         `json:"kid"`
	ExpiresAt    int64          `json:"exp,omitempty"`
	CreatedAt    int64          `json:"createdAt"`
	Type         core.TokenType `json:"typ"`
	RequestToken string         `json:"requestToken"`
}

func (c *RequestClaims) GetExpirationTime() (*jwt.NumericDate, error) { return millis(c.ExpiresAt), nil }
func (c *RequestClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return millis(c.CreatedAt), nil }
func (c *RequestClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c *RequestClaims) GetIssuer() (string, error)                   { return c.Issuer, nil }
func (c *RequestClaims) GetSubject() (string, error)                  { return "", nil }
func (c *RequestClaims) GetAudience() (jwt.ClaimStrings, error) {
	return jwt.ClaimStrings{c.Audience}, nil
}

func (c *ResponseClaims) GetExpirationTime() (*jwt.NumericDate, error) { return millis(c.ExpiresAt), nil }
func (c *ResponseClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return millis(c.CreatedAt), nil }
func (c *ResponseClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c *ResponseClaims) GetIssuer() (string, error)                   { return c.Issuer, nil }
func (c *ResponseClaims) GetSubject() (string, error)                  { return "", nil }
func (c *ResponseClaims) GetAudience() (jwt.ClaimStrings, error) {
	return jwt.ClaimStrings{c.Audience}, nil
}

func millis(ms int64) *jwt.NumericDate {
	if ms == 0 {
		return nil
	}
	return jwt.NewNumericDate(time.UnixMilli(ms))
}

func requestClaims(p *core.RequestPayload) *RequestClaims {
	return &RequestClaims{
		Issuer:    p.Issuer,
		Audience:  p.Audience,
		KeyID:     p.KeyID,
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
		Type:      core.TokenTypeRequest,
		ID:        p.ID,
	}
}

func responseClaims(p *core.ResponsePayload) *ResponseClaims {
	return &ResponseClaims{
		Issuer:       p.Issuer,
		Audience:     p.Audience,
		KeyID:        p.KeyID,
		ExpiresAt:    p.ExpiresAt,
		CreatedAt:    p.CreatedAt,
		Type:         core.TokenTypeResponse,
		RequestToken: p.RequestToken,
	}
}
