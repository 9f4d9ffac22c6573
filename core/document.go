package core

import (
	"fmt"
)

// DIDDocument is the subset of a resolved DID document needed to verify
// token signatures. Older documents list keys under "publicKey", newer ones
// under "verificationMethod"; both are searched.
type DIDDocument struct {
	Context            []string             `json:"@context,omitempty"`
	ID                 string               `json:"id"`
	VerificationMethod []VerificationMethod `json:"verificationMethod,omitempty"`
	PublicKey          []VerificationMethod `json:"publicKey,omitempty"`
	Authentication     []string             `json:"authentication,omitempty"`
	AssertionMethod    []string             `json:"assertionMethod,omitempty"`
}

// VerificationMethod is a public key entry of a DID document.
type VerificationMethod struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Controller   string `json:"controller,omitempty"`
	PublicKeyHex string `json:"publicKeyHex,omitempty"`
}

// FindKey returns the verification method matching keyID. Ids are compared
// by fragment so "did:x:y#primary" and "#primary" both match.
func (d *DIDDocument) FindKey(keyID string) (*VerificationMethod, error) {
	_, want := SplitKeyID(keyID)
	if want == "" {
		return nil, fmt.Errorf("key id %q has no fragment: %w", keyID, ErrKeyNotFound)
	}

	for _, list := range [][]VerificationMethod{d.VerificationMethod, d.PublicKey} {
		for i := range list {
			if _, fragment := SplitKeyID(list[i].ID); fragment == want {
				return &list[i], nil
			}
		}
	}

	return nil, fmt.Errorf("%s in %s: %w", keyID, d.ID, ErrKeyNotFound)
}
