package service

import (
	"fmt"
	"time"

	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
)

// NewLocalExpiringResponseToken parses responseTokenRaw and tracks its expiry
// on the local clock. tokenRequestTime is the local time the handshake that
// produced the token was started.
func NewLocalExpiringResponseToken(
	tokenizer ports.Tokenizer,
	tokenRequestTime time.Time,
	responseTokenRaw string,
	buffer time.Duration,
) (*core.LocalExpiringResponseToken, error) {
	response, err := tokenizer.ParseResponseToken(responseTokenRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid response token: %w", err)
	}

	return core.NewLocalExpiringResponseToken(tokenRequestTime.UnixMilli(), response, buffer.Milliseconds())
}
