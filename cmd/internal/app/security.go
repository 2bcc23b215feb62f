package app

import (
	"errors"

	"pago/cmd/security/token"
)

// ValidateSecurityConfig enforces the token-secret policy at startup.
//
// Fail-fast: minting access tokens with an ephemeral key is acceptable in
// development but never in production, so under policy the process refuses
// to start rather than falling back.
func ValidateSecurityConfig(cfg Config) error {
	if !cfg.RequireTokenSecret {
		return nil
	}

	// Minimum 32 bytes for HMAC-SHA256, measured in bytes (not runes)
	// because the secret is used as raw key material.
	if _, err := token.SecretFromEnv(token.MinSecretBytes); err != nil {
		switch {
		case errors.Is(err, token.ErrSecretMissing):
			return errors.New("security policy: PAGO_REQUIRE_TOKEN_SECRET=true but PAGO_TOKEN_SECRET is missing")
		case errors.Is(err, token.ErrSecretTooShort):
			return errors.New("security policy: PAGO_REQUIRE_TOKEN_SECRET=true but PAGO_TOKEN_SECRET is too short (min 32 bytes)")
		default:
			return err
		}
	}

	return nil
}
