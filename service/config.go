package service

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
)

const (
	// DefaultRequestTokenTTL is the lifetime given to request tokens issued
	// without an explicit expiry.
	DefaultRequestTokenTTL = 12 * time.Hour

	// DefaultMaxTokenValid bounds both the validity a responder accepts on a
	// request token and the lifetime of the response tokens it signs.
	DefaultMaxTokenValid = 12 * time.Hour

	// DefaultExpiryBuffer is taken off locally tracked session lifetimes.
	DefaultExpiryBuffer = time.Duration(core.DefaultExpiryBuffer) * time.Millisecond
)

// Config holds the DID-Auth policy values
type Config struct {
	RequestTokenTTL time.Duration
	MaxTokenValid   time.Duration
	ExpiryBuffer    time.Duration
}

// DefaultConfig returns the default policy
func DefaultConfig() Config {
	return Config{
		RequestTokenTTL: DefaultRequestTokenTTL,
		MaxTokenValid:   DefaultMaxTokenValid,
		ExpiryBuffer:    DefaultExpiryBuffer,
	}
}

// Identity is the DID, key id and key vault a party signs with
type Identity struct {
	DID   string
	KeyID string
	Vault ports.KeyVault
}

type options struct {
	config    Config
	now       func() time.Time
	logger    watermill.LoggerAdapter
	store     ports.Store
	publisher ports.EventPublisher
}

// Option configures a Challenger, Responder or Session
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		config: DefaultConfig(),
		now:    time.Now,
		logger: watermill.NopLogger{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithConfig overrides the policy values; zero fields keep their defaults
func WithConfig(c Config) Option {
	return func(o *options) {
		if c.RequestTokenTTL > 0 {
			o.config.RequestTokenTTL = c.RequestTokenTTL
		}
		if c.MaxTokenValid > 0 {
			o.config.MaxTokenValid = c.MaxTokenValid
		}
		if c.ExpiryBuffer > 0 {
			o.config.ExpiryBuffer = c.ExpiryBuffer
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger
func WithLogger(l watermill.LoggerAdapter) Option {
	return func(o *options) { o.logger = l }
}

// WithStore enables session revocation on a Challenger
func WithStore(s ports.Store) Option {
	return func(o *options) { o.store = s }
}

// WithPublisher enables logout events on a Challenger
func WithPublisher(p ports.EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}
