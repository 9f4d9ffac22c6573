package resolver

import (
	"context"
	"fmt"
	"sync"

	"github.com/layer-3/didauth/core"
)

// MemoryResolver serves DID documents registered in process memory.
// This is primarily intended for testing and for fixed peer sets.
type MemoryResolver struct {
	docs map[string]*core.DIDDocument
	mu   sync.RWMutex
}

// NewMemoryResolver creates an empty in-memory resolver
func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{
		docs: make(map[string]*core.DIDDocument),
	}
}

// Register stores doc under its normalized id
func (r *MemoryResolver) Register(doc *core.DIDDocument) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[core.NormalizeDID(doc.ID)] = doc
}

// Resolve returns the registered document for did
func (r *MemoryResolver) Resolve(ctx context.Context, did string) (*core.DIDDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[core.NormalizeDID(did)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", did, core.ErrDIDNotFound)
	}
	return doc, nil
}
