package ports

import "github.com/layer-3/didauth/core"

// Tokenizer converts between domain payloads and compact signed tokens.
type Tokenizer interface {
	// SigningInput encodes header and payload as "base64url(header).base64url(payload)".
	SigningInput(payload core.Payload) (string, error)

	// Assemble joins a signing input with its signature.
	Assemble(signingInput string, signature []byte) string

	// Parsing decodes without verifying signatures.
	ParseRequestToken(raw string) (*core.RequestToken, error)
	ParseResponseToken(raw string) (*core.ResponseToken, error)

	// VerifySignature checks the signature of raw against a public key
	// taken from a DID document.
	VerifySignature(raw string, key *core.VerificationMethod) error
}
