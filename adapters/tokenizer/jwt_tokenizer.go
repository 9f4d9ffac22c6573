package tokenizer

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
)

// JWTTokenizer implements the Tokenizer interface using the JWT compact
// form with a hex encoded ES256K signature segment.
type JWTTokenizer struct {
	parser *jwt.Parser
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer() ports.Tokenizer {
	return &JWTTokenizer{parser: jwt.NewParser()}
}

// SigningInput encodes the header and payload of an unsigned token
func (j *JWTTokenizer) SigningInput(payload core.Payload) (string, error) {
	var claims jwt.Claims
	switch p := payload.(type) {
	case *core.RequestPayload:
		claims = requestClaims(p)
	case *core.ResponsePayload:
		claims = responseClaims(p)
	default:
		return "", fmt.Errorf("unsupported payload %T", payload)
	}

	token := jwt.NewWithClaims(SigningMethodES256K, claims)

	input, err := token.SigningString()
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}

	return input, nil
}

// Assemble appends the hex encoded signature to the signing input
func (j *JWTTokenizer) Assemble(signingInput string, signature []byte) string {
	return signingInput + "." + hex.EncodeToString(signature)
}

// ParseRequestToken decodes a request token without verifying it
func (j *JWTTokenizer) ParseRequestToken(raw string) (*core.RequestToken, error) {
	claims := &RequestClaims{}
	signature, err := j.decode(raw, claims)
	if err != nil {
		return nil, err
	}

	if claims.Type != "" && claims.Type != core.TokenTypeRequest {
		return nil, fmt.Errorf("%w: unexpected token type %q", core.ErrDecode, claims.Type)
	}

	payload := core.RequestPayload{
		ID:        claims.ID,
		Issuer:    claims.Issuer,
		Audience:  claims.Audience,
		KeyID:     claims.KeyID,
		CreatedAt: claims.CreatedAt,
		ExpiresAt: claims.ExpiresAt,
	}

	return core.NewRequestToken(raw, signature, payload), nil
}

// ParseResponseToken decodes a response token and the request token it
// embeds without verifying either
func (j *JWTTokenizer) ParseResponseToken(raw string) (*core.ResponseToken, error) {
	claims := &ResponseClaims{}
	signature, err := j.decode(raw, claims)
	if err != nil {
		return nil, err
	}

	if claims.Type != "" && claims.Type != core.TokenTypeResponse {
		return nil, fmt.Errorf("%w: unexpected token type %q", core.ErrDecode, claims.Type)
	}
	if claims.RequestToken == "" {
		return nil, core.ErrMissingRequestToken
	}

	request, err := j.ParseRequestToken(claims.RequestToken)
	if err != nil {
		return nil, fmt.Errorf("embedded request token: %w", err)
	}

	payload := core.ResponsePayload{
		Issuer:       claims.Issuer,
		Audience:     claims.Audience,
		KeyID:        claims.KeyID,
		CreatedAt:    claims.CreatedAt,
		ExpiresAt:    claims.ExpiresAt,
		RequestToken: claims.RequestToken,
	}

	return core.NewResponseToken(raw, signature, payload, request), nil
}

// VerifySignature verifies the ES256K signature of raw against key
func (j *JWTTokenizer) VerifySignature(raw string, key *core.VerificationMethod) error {
	i := strings.LastIndex(raw, ".")
	if i < 0 {
		return fmt.Errorf("%w: no signature segment", core.ErrInvalidSignature)
	}

	signature, err := hex.DecodeString(raw[i+1:])
	if err != nil {
		return fmt.Errorf("%w: signature is not hex: %v", core.ErrInvalidSignature, err)
	}

	publicKey, err := hex.DecodeString(strings.TrimPrefix(key.PublicKeyHex, "0x"))
	if err != nil || len(publicKey) == 0 {
		return fmt.Errorf("%w: key %s has no usable publicKeyHex", core.ErrInvalidSignature, key.ID)
	}

	if err := SigningMethodES256K.Verify(raw[:i], signature, publicKey); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}

	return nil
}

func (j *JWTTokenizer) decode(raw string, claims jwt.Claims) (string, error) {
	_, parts, err := j.parser.ParseUnverified(raw, claims)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	if parts[2] == "" {
		return "", fmt.Errorf("%w: empty signature", core.ErrDecode)
	}
	return parts[2], nil
}
