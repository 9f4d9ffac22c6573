package ports

import "context"

// KeyVault holds a private signing key. Implementations may call out to a
// remote KMS, so SignDigest can block.
type KeyVault interface {
	// SignDigest signs a SHA-256 digest and returns the raw signature bytes.
	SignDigest(ctx context.Context, digest []byte) ([]byte, error)
}
