package ports

import (
	"context"
	"time"
)

// Store records revoked DID-Auth sessions until their tokens expire.
type Store interface {
	RevokeSession(ctx context.Context, sessionID string, expiry time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
}
