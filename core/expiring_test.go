package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithRequest(createdAt, exp int64) *ResponseToken {
	request := NewRequestToken("req", "sig", RequestPayload{
		ID:        "session-1",
		Issuer:    "did:example:verifier",
		Audience:  "did:example:client",
		CreatedAt: createdAt,
		ExpiresAt: exp,
	})
	return NewResponseToken("resp", "sig", ResponsePayload{
		Issuer:       "did:example:client",
		Audience:     "did:example:verifier",
		CreatedAt:    createdAt,
		RequestToken: "req",
	}, request)
}

func TestLocalExpiringResponseToken(t *testing.T) {
	// Issuer clock: one hour of validity.
	token := responseWithRequest(1_000_000, 1_000_000+3_600_000)

	local, err := NewLocalExpiringResponseToken(50_000, token, DefaultExpiryBuffer)
	require.NoError(t, err)

	assert.Equal(t, int64(50_000+3_600_000-5_000), local.ExpireAt())
	assert.Same(t, token, local.ResponseToken())
	assert.Equal(t, "resp", local.String())
}

func TestLocalExpiringResponseTokenBoundary(t *testing.T) {
	local, err := NewLocalExpiringResponseToken(0, responseWithRequest(100, 10_100), 1_000)
	require.NoError(t, err)
	require.Equal(t, int64(9_000), local.ExpireAt())

	assert.False(t, local.IsExpiredAt(8_999))
	assert.False(t, local.IsExpiredAt(9_000), "valid at exactly expireAt")
	assert.True(t, local.IsExpiredAt(9_001))
}

func TestLocalExpiringResponseTokenDeterministic(t *testing.T) {
	token := responseWithRequest(7_000, 67_000)

	a, err := NewLocalExpiringResponseToken(123_456, token, 500)
	require.NoError(t, err)
	b, err := NewLocalExpiringResponseToken(123_456, token, 500)
	require.NoError(t, err)

	assert.Equal(t, a.ExpireAt(), b.ExpireAt())
}

func TestLocalExpiringResponseTokenClockSkew(t *testing.T) {
	const lifetime = 600_000

	// The same exchange seen from a client whose clock runs an hour behind
	// or ahead of the verifier's: only the issuer-side duration matters.
	behind, err := NewLocalExpiringResponseToken(1_000_000-3_600_000, responseWithRequest(1_000_000, 1_000_000+lifetime), 0)
	require.NoError(t, err)
	ahead, err := NewLocalExpiringResponseToken(1_000_000+3_600_000, responseWithRequest(1_000_000, 1_000_000+lifetime), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(lifetime), behind.ExpireAt()-(1_000_000-3_600_000))
	assert.Equal(t, int64(lifetime), ahead.ExpireAt()-(1_000_000+3_600_000))
}

func TestLocalExpiringResponseTokenErrors(t *testing.T) {
	t.Run("missing exp", func(t *testing.T) {
		_, err := NewLocalExpiringResponseToken(0, responseWithRequest(1_000, 0), 0)
		assert.ErrorIs(t, err, ErrInvalidExpiryComputation)
	})

	t.Run("missing createdAt", func(t *testing.T) {
		_, err := NewLocalExpiringResponseToken(0, responseWithRequest(0, 1_000), 0)
		assert.ErrorIs(t, err, ErrInvalidExpiryComputation)
	})

	t.Run("nil token", func(t *testing.T) {
		_, err := NewLocalExpiringResponseToken(0, nil, 0)
		assert.ErrorIs(t, err, ErrInvalidExpiryComputation)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := NewLocalExpiringResponseToken(math.MaxInt64-10, responseWithRequest(1, math.MaxInt64), 0)
		assert.ErrorIs(t, err, ErrInvalidExpiryComputation)
	})
}
