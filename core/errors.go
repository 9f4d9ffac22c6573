package core

import "errors"

var (
	ErrDecode                   = errors.New("token cannot be decoded")
	ErrMissingRequestToken      = errors.New("response token has no request token")
	ErrRequestTokenTooLong      = errors.New("request token validity exceeds the allowed period")
	ErrTokenExpiredOrInvalid    = errors.New("token expired or invalid")
	ErrInvalidSignature         = errors.New("invalid signature")
	ErrIssuerMismatch           = errors.New("request token was not issued by this verifier")
	ErrInvalidExpiryComputation = errors.New("local expiry cannot be computed")
	ErrTokenRevoked             = errors.New("token has been revoked")
	ErrDIDNotFound              = errors.New("did not found")
	ErrKeyNotFound              = errors.New("verification key not found")
)
