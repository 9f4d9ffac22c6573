package resolver

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/layer-3/didauth/core"
	"github.com/mr-tron/base58"
)

const (
	keyDIDPrefix = "did:key:"

	// multibase prefix for base58btc
	multibaseBase58BTC = 'z'

	// varint encoded multicodec for a compressed secp256k1 public key
	secp256k1PubCodec0 = 0xe7
	secp256k1PubCodec1 = 0x01

	compressedKeyLength = 33

	// VerificationKeyType is the verification method type of secp256k1 keys.
	VerificationKeyType = "EcdsaSecp256k1VerificationKey2019"
)

// KeyDID derives a did:key identifier from a compressed secp256k1 public key.
func KeyDID(publicKey []byte) string {
	data := make([]byte, 0, 2+len(publicKey))
	data = append(data, secp256k1PubCodec0, secp256k1PubCodec1)
	data = append(data, publicKey...)
	return keyDIDPrefix + string(multibaseBase58BTC) + base58.Encode(data)
}

// KeyDIDKeyID returns the key id of the single key of a did:key.
func KeyDIDKeyID(did string) string {
	return did + "#" + strings.TrimPrefix(did, keyDIDPrefix)
}

// KeyResolver resolves did:key identifiers locally; the public key is
// encoded in the identifier itself.
type KeyResolver struct{}

// NewKeyResolver creates a did:key resolver
func NewKeyResolver() *KeyResolver {
	return &KeyResolver{}
}

// Resolve builds the document of a did:key identifier
func (r *KeyResolver) Resolve(ctx context.Context, did string) (*core.DIDDocument, error) {
	did = core.NormalizeDID(did)

	id, ok := strings.CutPrefix(did, keyDIDPrefix)
	if !ok || len(id) < 2 || id[0] != multibaseBase58BTC {
		return nil, fmt.Errorf("not a base58btc did:key %q: %w", did, core.ErrDIDNotFound)
	}

	data, err := base58.Decode(id[1:])
	if err != nil {
		return nil, fmt.Errorf("decode %q: %v: %w", did, err, core.ErrDIDNotFound)
	}
	if len(data) != 2+compressedKeyLength || data[0] != secp256k1PubCodec0 || data[1] != secp256k1PubCodec1 {
		return nil, fmt.Errorf("%q is not a secp256k1 did:key: %w", did, core.ErrDIDNotFound)
	}

	keyID := KeyDIDKeyID(did)

	return &core.DIDDocument{
		Context: []string{"https://www.w3.org/ns/did/v1"},
		ID:      did,
		VerificationMethod: []core.VerificationMethod{{
			ID:           keyID,
			Type:         VerificationKeyType,
			Controller:   did,
			PublicKeyHex: hex.EncodeToString(data[2:]),
		}},
		Authentication:  []string{keyID},
		AssertionMethod: []string{keyID},
	}, nil
}
