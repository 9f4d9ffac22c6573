package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Session caches the response token of a client and renews it through a
// fresh handshake once it expires on the local clock. Concurrent callers
// share a single handshake.
type Session struct {
	responder *Responder
	fetcher   ports.RequestTokenFetcher
	options

	group   singleflight.Group
	mu      sync.RWMutex
	current *core.LocalExpiringResponseToken
}

// NewSession creates a session answering challenges with responder and
// obtaining them from fetcher
func NewSession(responder *Responder, fetcher ports.RequestTokenFetcher, opts ...Option) *Session {
	return &Session{
		responder: responder,
		fetcher:   fetcher,
		options:   newOptions(opts),
	}
}

// ResponseToken returns a response token that is valid on the local clock,
// running a handshake first when needed. The handshake is not bound to the
// caller's context so one caller giving up does not fail the others; ctx
// only limits how long this caller waits.
func (s *Session) ResponseToken(ctx context.Context) (string, error) {
	if token := s.cached(); token != nil {
		return token.String(), nil
	}

	ch := s.group.DoChan(refreshKey, func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*core.LocalExpiringResponseToken).String(), nil
	}
}

// Invalidate drops the cached token, typically after the verifier rejected it
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
}

func (s *Session) cached() *core.LocalExpiringResponseToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.IsExpiredAt(s.now().UnixMilli()) {
		return nil
	}
	return s.current
}

func (s *Session) refresh(ctx context.Context) (*core.LocalExpiringResponseToken, error) {
	// Another flight may have completed between the cache check and this one.
	if token := s.cached(); token != nil {
		return token, nil
	}

	tokenRequestTime := s.now()

	requestToken, err := s.fetcher.FetchRequestToken(ctx, s.responder.DID())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request token: %w", err)
	}

	responseToken, err := s.responder.CreateResponseToken(ctx, requestToken, s.config.MaxTokenValid)
	if err != nil {
		return nil, err
	}

	token, err := NewLocalExpiringResponseToken(s.responder.tokenizer, tokenRequestTime, responseToken, s.config.ExpiryBuffer)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = token
	s.mu.Unlock()

	s.logger.Debug("DID-Auth session refreshed", watermill.LogFields{
		"did":       s.responder.DID(),
		"expire_at": token.ExpireAt(),
	})

	return token, nil
}
