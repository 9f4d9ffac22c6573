package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/layer-3/didauth/adapters/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	clock      *fakeClock
	challenger *Challenger
	fetcher    *challengeFetcher
	session    *Session
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	clock := newFakeClock()
	tk := tokenizer.NewJWTTokenizer()

	challenger := NewChallenger(newIdentity(t), tk, newTestResolver(), WithClock(clock.Now))
	fetcher := &challengeFetcher{challenger: challenger}
	responder := NewResponder(newIdentity(t), tk, WithClock(clock.Now))

	return &sessionFixture{
		clock:      clock,
		challenger: challenger,
		fetcher:    fetcher,
		session:    NewSession(responder, fetcher, WithClock(clock.Now)),
	}
}

func TestSessionResponseToken(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	token, err := f.session.ResponseToken(ctx)
	require.NoError(t, err)

	_, err = f.challenger.VerifyResponseToken(ctx, token)
	require.NoError(t, err)

	again, err := f.session.ResponseToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, again)
	assert.Equal(t, int32(1), f.fetcher.calls.Load())
}

func TestSessionSingleFlight(t *testing.T) {
	f := newSessionFixture(t)
	f.fetcher.gate = make(chan struct{})

	const callers = 16
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = f.session.ResponseToken(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(f.fetcher.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, tokens[0], tokens[i])
	}
	assert.Equal(t, int32(1), f.fetcher.calls.Load())
}

func TestSessionRefreshesAfterLocalExpiry(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.session.ResponseToken(ctx)
	require.NoError(t, err)

	// Request tokens live 12h; the buffer takes 5s off locally.
	f.clock.Advance(DefaultRequestTokenTTL - DefaultExpiryBuffer)
	same, err := f.session.ResponseToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, same)

	f.clock.Advance(time.Millisecond)
	second, err := f.session.ResponseToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), f.fetcher.calls.Load())

	_, err = f.challenger.VerifyResponseToken(ctx, second)
	assert.NoError(t, err)
}

func TestSessionInvalidate(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.session.ResponseToken(ctx)
	require.NoError(t, err)

	f.session.Invalidate()

	_, err = f.session.ResponseToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.fetcher.calls.Load())
}

func TestSessionFetchErrorNotCached(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.fetcher.err = errors.New("verifier unreachable")
	_, err := f.session.ResponseToken(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verifier unreachable")

	f.fetcher.err = nil
	_, err = f.session.ResponseToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.fetcher.calls.Load())
}

func TestSessionCallerCancellation(t *testing.T) {
	f := newSessionFixture(t)
	f.fetcher.gate = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.session.ResponseToken(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// The handshake keeps running for the other callers.
	close(f.fetcher.gate)
	token, err := f.session.ResponseToken(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int32(1), f.fetcher.calls.Load())
}
