package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
)

// Responder answers request tokens on behalf of a client DID
type Responder struct {
	identity  Identity
	tokenizer ports.Tokenizer
	options
}

// NewResponder creates a responder signing as identity
func NewResponder(identity Identity, tokenizer ports.Tokenizer, opts ...Option) *Responder {
	return &Responder{
		identity:  identity,
		tokenizer: tokenizer,
		options:   newOptions(opts),
	}
}

// DID returns the responder's DID
func (r *Responder) DID() string {
	return r.identity.DID
}

// CreateResponseToken signs a response to requestTokenRaw. A request token
// without exp, or whose exp lies beyond maxValid from now, is refused with
// core.ErrRequestTokenTooLong. maxValid <= 0 selects the configured default.
//
// The window is checked against the local clock as is. A client running
// behind the verifier may refuse a compliant token, and one running ahead
// may accept a token the verifier already considers stale.
func (r *Responder) CreateResponseToken(ctx context.Context, requestTokenRaw string, maxValid time.Duration) (string, error) {
	if maxValid <= 0 {
		maxValid = r.config.MaxTokenValid
	}

	request, err := r.tokenizer.ParseRequestToken(requestTokenRaw)
	if err != nil {
		return "", fmt.Errorf("invalid request token: %w", err)
	}

	now := r.now()

	exp, ok := request.ExpiresAt()
	if !ok || exp > now.Add(maxValid).UnixMilli() {
		return "", fmt.Errorf("%w: max token validity period of %dms", core.ErrRequestTokenTooLong, maxValid.Milliseconds())
	}

	payload := BuildResponsePayload(request, maxValid, now)

	token, err := Sign(ctx, r.tokenizer, payload, r.identity.DID, r.identity.KeyID, r.identity.Vault)
	if err != nil {
		return "", err
	}

	r.logger.Debug("Response token created", watermill.LogFields{
		"verifier": request.Issuer(),
		"did":      r.identity.DID,
	})

	return token, nil
}
