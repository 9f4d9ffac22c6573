package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/didauth/core"
)

// BuildRequestPayload assembles an unsigned request token for audienceDID.
// expiresAt is used when it lies strictly after now, otherwise the token
// lives for defaultTTL.
func BuildRequestPayload(audienceDID string, expiresAt time.Time, now time.Time, defaultTTL time.Duration) *core.RequestPayload {
	exp := now.Add(defaultTTL)
	if expiresAt.After(now) {
		exp = expiresAt
	}

	return &core.RequestPayload{
		ID:        uuid.New().String(),
		Audience:  core.NormalizeDID(audienceDID),
		CreatedAt: now.UnixMilli(),
		ExpiresAt: exp.UnixMilli(),
	}
}

// BuildResponsePayload assembles an unsigned response to request. The
// request issuer becomes the audience and the raw request token is embedded
// verbatim.
func BuildResponsePayload(request *core.RequestToken, maxValid time.Duration, now time.Time) *core.ResponsePayload {
	return &core.ResponsePayload{
		Audience:     request.Issuer(),
		CreatedAt:    now.UnixMilli(),
		ExpiresAt:    now.Add(maxValid).UnixMilli(),
		RequestToken: request.String(),
	}
}
