package store

import (
	"context"
	"fmt"
	"time"

	"github.com/layer-3/didauth/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the Store interface
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client *redis.Client) ports.Store {
	return &RedisStore{
		client: client,
		prefix: "didauth:revoked:",
	}
}

// RevokeSession marks a session as revoked in Redis
func (s *RedisStore) RevokeSession(ctx context.Context, sessionID string, expiry time.Duration) error {
	key := s.prefix + sessionID

	// Set key with expiration
	if err := s.client.Set(ctx, key, "1", expiry).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// IsSessionRevoked checks if a session is revoked in Redis
func (s *RedisStore) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	key := s.prefix + sessionID

	// Check if key exists
	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}

	return val > 0, nil
}
