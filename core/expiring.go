package core

import (
	"fmt"
	"math"
)

// DefaultExpiryBuffer is the safety margin, in milliseconds, taken off the
// locally tracked token lifetime.
const DefaultExpiryBuffer int64 = 5000

// LocalExpiringResponseToken pairs a response token with an expiry expressed
// on the local clock. The lifetime of the answered request token is measured
// with the issuer's clock (exp - createdAt) and re-anchored at the local time
// the exchange started, so skew between the two clocks cancels out.
type LocalExpiringResponseToken struct {
	token    *ResponseToken
	expireAt int64
}

// NewLocalExpiringResponseToken computes
//
//	expireAt = tokenRequestTime + (exp - createdAt) - buffer
//
// where exp and createdAt come from the embedded request token. All values
// are ms epoch.
func NewLocalExpiringResponseToken(tokenRequestTime int64, token *ResponseToken, buffer int64) (*LocalExpiringResponseToken, error) {
	if token == nil || token.RequestToken() == nil {
		return nil, fmt.Errorf("no request token: %w", ErrInvalidExpiryComputation)
	}
	request := token.RequestToken()

	exp, ok := request.ExpiresAt()
	if !ok {
		return nil, fmt.Errorf("request token has no exp: %w", ErrInvalidExpiryComputation)
	}
	createdAt := request.CreatedAt()
	if createdAt == 0 {
		return nil, fmt.Errorf("request token has no createdAt: %w", ErrInvalidExpiryComputation)
	}

	lifetime, ok := sub(exp, createdAt)
	if ok {
		lifetime, ok = sub(lifetime, buffer)
	}
	var expireAt int64
	if ok {
		expireAt, ok = add(tokenRequestTime, lifetime)
	}
	if !ok {
		return nil, fmt.Errorf("expiry overflows: %w", ErrInvalidExpiryComputation)
	}

	return &LocalExpiringResponseToken{token: token, expireAt: expireAt}, nil
}

// IsExpiredAt reports whether the token is expired at the local time t (ms
// epoch). A token is still valid at exactly ExpireAt.
func (t *LocalExpiringResponseToken) IsExpiredAt(ms int64) bool {
	return ms > t.expireAt
}

func (t *LocalExpiringResponseToken) ExpireAt() int64               { return t.expireAt }
func (t *LocalExpiringResponseToken) ResponseToken() *ResponseToken { return t.token }
func (t *LocalExpiringResponseToken) String() string                { return t.token.String() }

func add(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func sub(a, b int64) (int64, bool) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, false
	}
	return a - b, true
}
