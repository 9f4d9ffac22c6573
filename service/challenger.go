package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
)

// ErrRevocationDisabled is returned by Logout when no store is configured
var ErrRevocationDisabled = errors.New("session revocation is not configured")

// Challenger issues request tokens and verifies the response tokens that
// answer them. It is the verifier side of DID-Auth.
type Challenger struct {
	identity  Identity
	tokenizer ports.Tokenizer
	resolver  ports.DIDResolver
	options
}

// NewChallenger creates a verifier issuing challenges as identity
func NewChallenger(
	identity Identity,
	tokenizer ports.Tokenizer,
	resolver ports.DIDResolver,
	opts ...Option,
) *Challenger {
	return &Challenger{
		identity:  identity,
		tokenizer: tokenizer,
		resolver:  resolver,
		options:   newOptions(opts),
	}
}

// DID returns the verifier's DID
func (c *Challenger) DID() string {
	return c.identity.DID
}

// CreateRequestToken issues a signed challenge for audienceDID. A zero or
// past expiresAt selects the configured request token lifetime.
func (c *Challenger) CreateRequestToken(ctx context.Context, audienceDID string, expiresAt time.Time) (string, error) {
	if audienceDID == "" {
		return "", errors.New("audience DID is required")
	}

	payload := BuildRequestPayload(audienceDID, expiresAt, c.now(), c.config.RequestTokenTTL)

	token, err := Sign(ctx, c.tokenizer, payload, c.identity.DID, c.identity.KeyID, c.identity.Vault)
	if err != nil {
		return "", err
	}

	c.logger.Debug("Request token issued", watermill.LogFields{
		"audience":   payload.Audience,
		"session_id": payload.ID,
	})

	return token, nil
}

// VerifyResponseToken verifies a response token and the request token it
// embeds. Both signatures are checked against keys resolved from the
// issuers' DIDs, the response must answer the embedded request, and the
// request must have been issued by this verifier. Any failure is returned as
// an error; a nil error is the only success.
func (c *Challenger) VerifyResponseToken(ctx context.Context, responseTokenRaw string) (*core.ResponseToken, error) {
	response, err := c.tokenizer.ParseResponseToken(responseTokenRaw)
	if err != nil {
		return nil, err
	}
	request := response.RequestToken()
	now := c.now().UnixMilli()

	if err := c.verifyToken(ctx, request.String(), request.RawIssuer(), request.KeyID()); err != nil {
		return nil, c.reject(response, fmt.Errorf("request token: %w", err))
	}
	if exp, ok := request.ExpiresAt(); ok && now > exp {
		return nil, c.reject(response, fmt.Errorf("request token: %w: expired", core.ErrTokenExpiredOrInvalid))
	}

	if err := c.verifyToken(ctx, response.String(), response.RawIssuer(), response.KeyID()); err != nil {
		return nil, c.reject(response, fmt.Errorf("response token: %w", err))
	}
	if exp, ok := response.ExpiresAt(); ok && now > exp {
		return nil, c.reject(response, fmt.Errorf("response token: %w: expired", core.ErrTokenExpiredOrInvalid))
	}

	// The response must answer this very challenge.
	if response.Audience() != request.Issuer() {
		return nil, c.reject(response, fmt.Errorf("%w: response audience %s does not match request issuer %s",
			core.ErrTokenExpiredOrInvalid, response.Audience(), request.Issuer()))
	}
	if response.Issuer() != request.Audience() {
		return nil, c.reject(response, fmt.Errorf("%w: response issuer %s is not the request audience %s",
			core.ErrTokenExpiredOrInvalid, response.Issuer(), request.Audience()))
	}

	if request.Issuer() != core.NormalizeDID(c.identity.DID) {
		return nil, c.reject(response, fmt.Errorf("%w: issued by %s", core.ErrIssuerMismatch, request.Issuer()))
	}

	if c.store != nil {
		revoked, err := c.store.IsSessionRevoked(ctx, request.SessionID())
		if err != nil {
			return nil, fmt.Errorf("failed to check session revocation: %w", err)
		}
		if revoked {
			return nil, c.reject(response, core.ErrTokenRevoked)
		}
	}

	return response, nil
}

// Logout verifies a response token and revokes its session until the
// underlying request token expires. Other instances are notified through
// the event publisher when one is configured.
func (c *Challenger) Logout(ctx context.Context, responseTokenRaw string) (*core.Session, error) {
	if c.store == nil {
		return nil, ErrRevocationDisabled
	}

	response, err := c.VerifyResponseToken(ctx, responseTokenRaw)
	if err != nil {
		return nil, err
	}
	session := response.Session()

	ttl := c.config.RequestTokenTTL
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(c.now())
	}

	if err := c.store.RevokeSession(ctx, session.ID, ttl); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}

	if c.publisher != nil {
		if err := c.publisher.PublishLogout(ctx, session.DID, session.ID); err != nil {
			// The session is already revoked in the store.
			c.logger.Error("Failed to publish logout event", err, watermill.LogFields{
				"did":        session.DID,
				"session_id": session.ID,
			})
		}
	}

	return session, nil
}

func (c *Challenger) verifyToken(ctx context.Context, raw, issuer, keyID string) error {
	if issuer == "" || keyID == "" {
		return fmt.Errorf("%w: missing iss or kid", core.ErrTokenExpiredOrInvalid)
	}
	if keyDID, _ := core.SplitKeyID(keyID); keyDID != "" && core.NormalizeDID(keyDID) != core.NormalizeDID(issuer) {
		return fmt.Errorf("%w: key %s does not belong to %s", core.ErrTokenExpiredOrInvalid, keyID, issuer)
	}

	doc, err := c.resolver.Resolve(ctx, issuer)
	if err != nil {
		if errors.Is(err, core.ErrDIDNotFound) {
			return fmt.Errorf("%w: %w", core.ErrTokenExpiredOrInvalid, err)
		}
		return fmt.Errorf("failed to resolve %s: %w", issuer, err)
	}

	key, err := doc.FindKey(keyID)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidSignature, err)
	}

	return c.tokenizer.VerifySignature(raw, key)
}

func (c *Challenger) reject(response *core.ResponseToken, err error) error {
	c.logger.Debug("Response token rejected", watermill.LogFields{
		"did":   response.Issuer(),
		"error": err.Error(),
	})
	return err
}
