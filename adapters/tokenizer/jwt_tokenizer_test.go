package tokenizer

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/layer-3/didauth/adapters/vault"
	"github.com/layer-3/didauth/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	verifierDID = "did:example:verifier"
	clientDID   = "did:example:client"
)

func sign(t *testing.T, tk *JWTTokenizer, v *vault.MemoryVault, payload core.Payload) string {
	t.Helper()

	input, err := tk.SigningInput(payload)
	require.NoError(t, err)

	sig, err := v.SignDigest(context.Background(), Digest(input))
	require.NoError(t, err)

	return tk.Assemble(input, sig)
}

func newTokenizer() *JWTTokenizer {
	return NewJWTTokenizer().(*JWTTokenizer)
}

func keyOf(v *vault.MemoryVault) *core.VerificationMethod {
	return &core.VerificationMethod{ID: "#key-1", PublicKeyHex: hex.EncodeToString(v.PublicKey())}
}

func TestJWTTokenizerRequestRoundTrip(t *testing.T) {
	tk := newTokenizer()
	v, err := vault.GenerateMemoryVault()
	require.NoError(t, err)

	raw := sign(t, tk, v, &core.RequestPayload{
		ID:        "jti-1",
		Issuer:    verifierDID,
		Audience:  clientDID,
		KeyID:     verifierDID + "#key-1",
		CreatedAt: 1_700_000_000_000,
		ExpiresAt: 1_700_000_060_000,
	})

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"alg":"ES256K","typ":"JWT"}`, string(header))

	sig, err := hex.DecodeString(parts[2])
	require.NoError(t, err)
	assert.Len(t, sig, signatureLength)

	token, err := tk.ParseRequestToken(raw)
	require.NoError(t, err)

	assert.Equal(t, raw, token.String())
	assert.Equal(t, parts[2], token.Signature())
	assert.Equal(t, "jti-1", token.ID())
	assert.Equal(t, verifierDID, token.Issuer())
	assert.Equal(t, clientDID, token.Audience())
	assert.Equal(t, verifierDID+"#key-1", token.KeyID())
	assert.Equal(t, int64(1_700_000_000_000), token.CreatedAt())
	exp, ok := token.ExpiresAt()
	assert.True(t, ok)
	assert.Equal(t, int64(1_700_000_060_000), exp)

	assert.NoError(t, tk.VerifySignature(raw, keyOf(v)))
}

func TestJWTTokenizerMillisecondClaims(t *testing.T) {
	tk := newTokenizer()
	input, err := tk.SigningInput(&core.RequestPayload{
		Issuer:    verifierDID,
		Audience:  clientDID,
		KeyID:     "#k",
		CreatedAt: 1_700_000_000_123,
		ExpiresAt: 1_700_000_060_456,
	})
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(input, ".")[1])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"exp":1700000060456`)
	assert.Contains(t, string(payload), `"createdAt":1700000000123`)
	assert.Contains(t, string(payload), `"typ":"DidAuthRequest"`)
}

func TestJWTTokenizerRequestWithoutExp(t *testing.T) {
	tk := newTokenizer()
	v, err := vault.GenerateMemoryVault()
	require.NoError(t, err)

	raw := sign(t, tk, v, &core.RequestPayload{
		Issuer:    verifierDID,
		Audience:  clientDID,
		KeyID:     "#key-1",
		CreatedAt: 1_000,
	})

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(raw, ".")[1])
	require.NoError(t, err)
	assert.NotContains(t, string(payload), `"exp"`)

	token, err := tk.ParseRequestToken(raw)
	require.NoError(t, err)
	_, ok := token.ExpiresAt()
	assert.False(t, ok)
}

func TestJWTTokenizerResponseRoundTrip(t *testing.T) {
	tk := newTokenizer()
	server, err := vault.GenerateMemoryVault()
	require.NoError(t, err)
	client, err := vault.GenerateMemoryVault()
	require.NoError(t, err)

	requestRaw := sign(t, tk, server, &core.RequestPayload{
		ID:        "jti-1",
		Issuer:    verifierDID,
		Audience:  clientDID,
		KeyID:     "#key-1",
		CreatedAt: 1_000,
		ExpiresAt: 61_000,
	})
	responseRaw := sign(t, tk, client, &core.ResponsePayload{
		Issuer:       clientDID,
		Audience:     verifierDID,
		KeyID:        "#key-1",
		CreatedAt:    2_000,
		ExpiresAt:    62_000,
		RequestToken: requestRaw,
	})

	response, err := tk.ParseResponseToken(responseRaw)
	require.NoError(t, err)

	assert.Equal(t, clientDID, response.Issuer())
	assert.Equal(t, verifierDID, response.Audience())
	assert.Equal(t, requestRaw, response.RequestToken().String())
	assert.Equal(t, "jti-1", response.RequestToken().ID())

	assert.NoError(t, tk.VerifySignature(responseRaw, keyOf(client)))
	assert.NoError(t, tk.VerifySignature(requestRaw, keyOf(server)))
	assert.ErrorIs(t, tk.VerifySignature(responseRaw, keyOf(server)), core.ErrInvalidSignature)
}

func TestJWTTokenizerMissingRequestToken(t *testing.T) {
	tk := newTokenizer()
	v, err := vault.GenerateMemoryVault()
	require.NoError(t, err)

	raw := sign(t, tk, v, &core.ResponsePayload{
		Issuer:    clientDID,
		Audience:  verifierDID,
		KeyID:     "#key-1",
		CreatedAt: 1_000,
		ExpiresAt: 2_000,
	})

	_, err = tk.ParseResponseToken(raw)
	assert.ErrorIs(t, err, core.ErrMissingRequestToken)
}

func TestJWTTokenizerDecodeErrors(t *testing.T) {
	tk := newTokenizer()
	v, err := vault.GenerateMemoryVault()
	require.NoError(t, err)

	request := sign(t, tk, v, &core.RequestPayload{Issuer: verifierDID, Audience: clientDID, KeyID: "#k", CreatedAt: 1, ExpiresAt: 2})

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"two segments", "eyJhbGciOiJFUzI1NksifQ.e30"},
		{"bad base64", "!!!.???.00"},
		{"unsigned", strings.TrimSuffix(request, request[strings.LastIndex(request, ".")+1:])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tk.ParseRequestToken(tt.raw)
			assert.ErrorIs(t, err, core.ErrDecode)

			_, err = tk.ParseResponseToken(tt.raw)
			assert.ErrorIs(t, err, core.ErrDecode)
		})
	}

	t.Run("request parsed as response", func(t *testing.T) {
		_, err := tk.ParseResponseToken(request)
		assert.ErrorIs(t, err, core.ErrDecode)
	})
}

func TestJWTTokenizerTamperedPayload(t *testing.T) {
	tk := newTokenizer()
	v, err := vault.GenerateMemoryVault()
	require.NoError(t, err)

	raw := sign(t, tk, v, &core.RequestPayload{Issuer: verifierDID, Audience: clientDID, KeyID: "#k", CreatedAt: 1, ExpiresAt: 2})
	forged := sign(t, tk, v, &core.RequestPayload{Issuer: verifierDID, Audience: "did:example:mallory", KeyID: "#k", CreatedAt: 1, ExpiresAt: 2})

	parts := strings.Split(raw, ".")
	tampered := parts[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]

	_, err = tk.ParseRequestToken(tampered)
	require.NoError(t, err)
	assert.ErrorIs(t, tk.VerifySignature(tampered, keyOf(v)), core.ErrInvalidSignature)

	notHex := parts[0] + "." + parts[1] + ".zz"
	assert.ErrorIs(t, tk.VerifySignature(notHex, keyOf(v)), core.ErrInvalidSignature)
}
