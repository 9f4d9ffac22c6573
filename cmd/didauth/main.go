package main

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/layer-3/didauth/adapters/events"
	"github.com/layer-3/didauth/adapters/resolver"
	"github.com/layer-3/didauth/adapters/store"
	"github.com/layer-3/didauth/adapters/tokenizer"
	"github.com/layer-3/didauth/adapters/vault"
	"github.com/layer-3/didauth/ports"
	"github.com/layer-3/didauth/service"
	"github.com/layer-3/didauth/transport/http"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := watermill.NewStdLogger(false, false)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Load the verifier key, or generate one for a throwaway identity
	var keyVault *vault.MemoryVault
	if cfg.PrivateKey != "" {
		keyVault, err = vault.LoadMemoryVault(cfg.PrivateKey)
	} else {
		keyVault, err = vault.GenerateMemoryVault()
	}
	if err != nil {
		log.Fatalf("Failed to set up signing key: %v", err)
	}

	did := resolver.KeyDID(keyVault.PublicKey())
	identity := service.Identity{
		DID:   did,
		KeyID: resolver.KeyDIDKeyID(did),
		Vault: keyVault,
	}

	// did:key is resolved locally, other methods through the universal resolver
	var fallback ports.DIDResolver
	if cfg.ResolverURL != "" {
		fallback = resolver.NewHTTPResolver(cfg.ResolverURL, resolver.WithLogger(logger))
	}
	didResolver := resolver.NewCachingResolver(
		resolver.NewRouter(fallback).Handle("key", resolver.NewKeyResolver()),
		resolver.DefaultCacheSize,
		cfg.ResolverCacheTTL,
	)

	var (
		revocations ports.Store
		publisher   message.Publisher
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		revocations = store.NewRedisStore(redisClient)
	} else {
		publisher = gochannel.NewGoChannel(gochannel.Config{}, logger)
		revocations = store.NewMemoryStore()
	}

	challenger := service.NewChallenger(
		identity,
		tokenizer.NewJWTTokenizer(),
		didResolver,
		service.WithConfig(service.Config{RequestTokenTTL: cfg.RequestTokenTTL}),
		service.WithLogger(logger),
		service.WithStore(revocations),
		service.WithPublisher(events.NewWatermillPublisher(publisher)),
	)

	logger.Info("Verifier ready", watermill.LogFields{
		"did":  did,
		"addr": cfg.Addr,
	})

	// Setup Gin router
	router := http.SetupRouter(challenger)

	// Start server
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
