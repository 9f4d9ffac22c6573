package core

import "strings"

// NormalizeDID strips DID-URL matrix parameters (";key=value"), the query and
// the fragment, leaving the base DID.
func NormalizeDID(did string) string {
	if i := strings.IndexAny(did, ";?#"); i >= 0 {
		return did[:i]
	}
	return did
}

// SplitKeyID splits a key id of the form "did#fragment". A relative id
// ("#fragment") returns an empty DID.
func SplitKeyID(keyID string) (did string, fragment string) {
	did, fragment, _ = strings.Cut(keyID, "#")
	return did, fragment
}

// DIDMethod returns the method segment of a DID ("key" for "did:key:z...").
func DIDMethod(did string) string {
	parts := strings.SplitN(NormalizeDID(did), ":", 3)
	if len(parts) < 3 || parts[0] != "did" {
		return ""
	}
	return parts[1]
}
