package vault

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// digestLength is the size of the SHA-256 digests the vault signs.
const digestLength = 32

// MemoryVault keeps a secp256k1 private key in process memory
type MemoryVault struct {
	key *ecdsa.PrivateKey
}

// NewMemoryVault wraps an existing secp256k1 private key
func NewMemoryVault(key *ecdsa.PrivateKey) *MemoryVault {
	return &MemoryVault{key: key}
}

// GenerateMemoryVault creates a vault holding a fresh random key
func GenerateMemoryVault() (*MemoryVault, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &MemoryVault{key: key}, nil
}

// LoadMemoryVault parses a hex encoded private key
func LoadMemoryVault(hexKey string) (*MemoryVault, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &MemoryVault{key: key}, nil
}

// SignDigest signs a 32 byte digest and returns the compact [R || S] form
func (v *MemoryVault) SignDigest(ctx context.Context, digest []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(digest) != digestLength {
		return nil, fmt.Errorf("digest must be %d bytes, got %d", digestLength, len(digest))
	}

	sig, err := crypto.Sign(digest, v.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}

	// Drop the recovery id.
	return sig[:64], nil
}

// PublicKey returns the compressed public key
func (v *MemoryVault) PublicKey() []byte {
	return crypto.CompressPubkey(&v.key.PublicKey)
}
