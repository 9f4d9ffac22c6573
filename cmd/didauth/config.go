package main

import (
	"fmt"
	"os"
	"time"

	"github.com/layer-3/didauth/adapters/resolver"
	"github.com/layer-3/didauth/service"
)

// config is read from the environment
type config struct {
	Addr             string        // DIDAUTH_ADDR
	PrivateKey       string        // DIDAUTH_PRIVATE_KEY, hex secp256k1; generated when empty
	RedisURL         string        // REDIS_URL; memory store and in-process pubsub when empty
	ResolverURL      string        // DIDAUTH_RESOLVER_URL, universal resolver for non did:key DIDs
	RequestTokenTTL  time.Duration // DIDAUTH_REQUEST_TOKEN_TTL
	ResolverCacheTTL time.Duration // DIDAUTH_RESOLVER_CACHE_TTL
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:        getenv("DIDAUTH_ADDR", ":9000"),
		PrivateKey:  os.Getenv("DIDAUTH_PRIVATE_KEY"),
		RedisURL:    os.Getenv("REDIS_URL"),
		ResolverURL: os.Getenv("DIDAUTH_RESOLVER_URL"),
	}

	var err error
	if cfg.RequestTokenTTL, err = durationEnv("DIDAUTH_REQUEST_TOKEN_TTL", service.DefaultRequestTokenTTL); err != nil {
		return config{}, err
	}
	if cfg.ResolverCacheTTL, err = durationEnv("DIDAUTH_RESOLVER_CACHE_TTL", resolver.DefaultCacheTTL); err != nil {
		return config{}, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, v)
	}
	return d, nil
}
