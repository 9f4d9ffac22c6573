package resolver

import (
	"context"
	"fmt"

	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
)

// Router dispatches resolution by DID method, falling back to a default
// resolver for methods without a dedicated one.
type Router struct {
	methods  map[string]ports.DIDResolver
	fallback ports.DIDResolver
}

// NewRouter creates a router; fallback may be nil
func NewRouter(fallback ports.DIDResolver) *Router {
	return &Router{
		methods:  make(map[string]ports.DIDResolver),
		fallback: fallback,
	}
}

// Handle routes DIDs of the given method ("key", "elem", ...) to r
func (rt *Router) Handle(method string, r ports.DIDResolver) *Router {
	rt.methods[method] = r
	return rt
}

// Resolve resolves did with the resolver registered for its method
func (rt *Router) Resolve(ctx context.Context, did string) (*core.DIDDocument, error) {
	if r, ok := rt.methods[core.DIDMethod(did)]; ok {
		return r.Resolve(ctx, did)
	}
	if rt.fallback != nil {
		return rt.fallback.Resolve(ctx, did)
	}
	return nil, fmt.Errorf("no resolver for %s: %w", did, core.ErrDIDNotFound)
}
