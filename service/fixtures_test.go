package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/layer-3/didauth/adapters/resolver"
	"github.com/layer-3/didauth/adapters/tokenizer"
	"github.com/layer-3/didauth/adapters/vault"
	"github.com/layer-3/didauth/ports"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newIdentity(t *testing.T) Identity {
	t.Helper()

	v, err := vault.GenerateMemoryVault()
	require.NoError(t, err)

	did := resolver.KeyDID(v.PublicKey())
	return Identity{DID: did, KeyID: resolver.KeyDIDKeyID(did), Vault: v}
}

func newTestResolver() ports.DIDResolver {
	return resolver.NewRouter(nil).Handle("key", resolver.NewKeyResolver())
}

// challengeFetcher hands out request tokens straight from a Challenger
type challengeFetcher struct {
	challenger *Challenger
	calls      atomic.Int32
	gate       chan struct{}
	err        error
}

func (f *challengeFetcher) FetchRequestToken(ctx context.Context, audienceDID string) (string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return "", f.err
	}
	return f.challenger.CreateRequestToken(ctx, audienceDID, time.Time{})
}

type logoutEvent struct {
	did       string
	sessionID string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []logoutEvent
	err    error
}

func (p *recordingPublisher) PublishLogout(ctx context.Context, did string, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, logoutEvent{did: did, sessionID: sessionID})
	return p.err
}

// handshake runs the full exchange between a fresh client and challenger
func handshake(t *testing.T, challenger *Challenger, client Identity, opts ...Option) string {
	t.Helper()

	ctx := context.Background()
	request, err := challenger.CreateRequestToken(ctx, client.DID, time.Time{})
	require.NoError(t, err)

	response, err := NewResponder(client, tokenizer.NewJWTTokenizer(), opts...).CreateResponseToken(ctx, request, 0)
	require.NoError(t, err)

	return response
}
