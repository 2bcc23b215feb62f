package token

import "errors"

// Public, stable errors for callers.
var (
	ErrSecretMissing  = errors.New("token secret missing")
	ErrSecretTooShort = errors.New("token secret too short")

	// ErrInvalidToken is the single failure kind exposed by Decode.
	// Structural, signature, and expiry failures are internally distinct but
	// indistinguishable to the caller.
	ErrInvalidToken = errors.New("invalid token")
)
