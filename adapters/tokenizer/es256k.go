package tokenizer

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
)

// signatureLength is the size of a compact [R || S] secp256k1 signature.
const signatureLength = 64

var errUnsupportedKey = errors.New("unsupported key type")

// SigningMethodES256K is ECDSA over secp256k1 with SHA-256, the algorithm of
// DID-Auth tokens. It is registered with jwt under "ES256K".
var SigningMethodES256K = &signingMethodES256K{}

type signingMethodES256K struct{}

func init() {
	jwt.RegisterSigningMethod(SigningMethodES256K.Alg(), func() jwt.SigningMethod {
		return SigningMethodES256K
	})
}

func (m *signingMethodES256K) Alg() string { return "ES256K" }

// Sign accepts an *ecdsa.PrivateKey on the secp256k1 curve.
func (m *signingMethodES256K) Sign(signingString string, key interface{}) ([]byte, error) {
	priv, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errUnsupportedKey
	}
	sig, err := crypto.Sign(Digest(signingString), priv)
	if err != nil {
		return nil, err
	}
	return sig[:signatureLength], nil
}

// Verify accepts a compressed or uncompressed public key as []byte, or an
// *ecdsa.PublicKey.
func (m *signingMethodES256K) Verify(signingString string, sig []byte, key interface{}) error {
	var pub []byte
	switch k := key.(type) {
	case []byte:
		pub = k
	case *ecdsa.PublicKey:
		pub = crypto.FromECDSAPub(k)
	default:
		return errUnsupportedKey
	}

	// Recoverable signatures carry a trailing recovery id.
	if len(sig) == signatureLength+1 {
		sig = sig[:signatureLength]
	}
	if len(sig) != signatureLength {
		return jwt.ErrSignatureInvalid
	}
	if !crypto.VerifySignature(pub, Digest(signingString), sig) {
		return jwt.ErrSignatureInvalid
	}
	return nil
}

// Digest is the SHA-256 digest signed for a token's signing input.
func Digest(signingInput string) []byte {
	sum := sha256.Sum256([]byte(signingInput))
	return sum[:]
}
