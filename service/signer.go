package service

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/layer-3/didauth/core"
	"github.com/layer-3/didauth/ports"
)

// Sign stamps payload with the issuer DID and key id, then signs the SHA-256
// digest of its signing input with vault.
func Sign(
	ctx context.Context,
	tokenizer ports.Tokenizer,
	payload core.Payload,
	issuerDID string,
	keyID string,
	vault ports.KeyVault,
) (string, error) {
	payload.SetSigner(issuerDID, keyID)

	input, err := tokenizer.SigningInput(payload)
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256([]byte(input))

	signature, err := vault.SignDigest(ctx, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", payload.Type(), err)
	}

	return tokenizer.Assemble(input, signature), nil
}
