package ports

import (
	"context"

	"github.com/layer-3/didauth/core"
)

// DIDResolver resolves a DID to its document.
type DIDResolver interface {
	Resolve(ctx context.Context, did string) (*core.DIDDocument, error)
}

// RequestTokenFetcher obtains a fresh request token addressed to audienceDID
// from a verifier.
type RequestTokenFetcher interface {
	FetchRequestToken(ctx context.Context, audienceDID string) (string, error)
}
