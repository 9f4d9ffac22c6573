package ports

import "context"

// EventPublisher publishes events to notify other verifier instances
type EventPublisher interface {
	PublishLogout(ctx context.Context, did string, sessionID string) error
}
