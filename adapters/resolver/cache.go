package resolver

import (
	"context"
	"time"

	"github.com/bluele/gcache"
	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
)

const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 5 * time.Minute
)

// CachingResolver keeps resolved documents in an LRU cache with expiry.
// Failed resolutions are not cached. The underlying gcache is threadsafe,
// no need of locks.
type CachingResolver struct {
	next  ports.DIDResolver
	cache gcache.Cache
}

// NewCachingResolver wraps next with a cache of size entries kept for ttl
func NewCachingResolver(next ports.DIDResolver, size int, ttl time.Duration) *CachingResolver {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachingResolver{
		next:  next,
		cache: gcache.New(size).LRU().Expiration(ttl).Build(),
	}
}

// Resolve returns a cached document or resolves and caches it
func (r *CachingResolver) Resolve(ctx context.Context, did string) (*core.DIDDocument, error) {
	key := core.NormalizeDID(did)

	if v, err := r.cache.Get(key); err == nil {
		return v.(*core.DIDDocument), nil
	}

	doc, err := r.next.Resolve(ctx, did)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(key, doc)
	return doc, nil
}

// Purge drops every cached document
func (r *CachingResolver) Purge() {
	r.cache.Purge()
}
