package token

import (
	"os"
	"strings"
	"time"
)

const (
	// SecretEnvKey is the env var name for the token signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	SecretEnvKey = "PAGO_TOKEN_SECRET"

	// MinSecretBytes is the recommended minimum secret size for HMAC-SHA256.
	// Measured in bytes (not runes) because the secret is used as raw bytes.
	MinSecretBytes = 32

	// DefaultTTL is the access-token lifetime applied at issuance.
	DefaultTTL = 30 * time.Minute
)

// Config defines runtime configuration for the token codec.
type Config struct {
	// Secret is the process-wide symmetric signing key, loaded once at startup.
	Secret []byte

	// TTL is the fixed expiry duration applied to every issued token.
	TTL time.Duration

	// Issuer is the value set in the "iss" claim.
	Issuer string
}

// DefaultConfig returns a config with safe defaults and no secret.
func DefaultConfig() Config {
	return Config{
		TTL:    DefaultTTL,
		Issuer: "pago",
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Env surface:
// - PAGO_TOKEN_SECRET
// - PAGO_TOKEN_TTL (Go duration string)
// - PAGO_TOKEN_ISSUER
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	if raw := strings.TrimSpace(os.Getenv(SecretEnvKey)); raw != "" {
		cfg.Secret = []byte(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("PAGO_TOKEN_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.TTL = d
		}
	}
	if raw := strings.TrimSpace(os.Getenv("PAGO_TOKEN_ISSUER")); raw != "" {
		cfg.Issuer = raw
	}

	return cfg
}

// SecretFromEnv returns the configured secret bytes (trimmed), enforcing a
// minimum byte length.
// If the env var is missing/blank -> ErrSecretMissing.
// If too short -> ErrSecretTooShort.
func SecretFromEnv(minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(SecretEnvKey))
	if raw == "" {
		return nil, ErrSecretMissing
	}
	b := []byte(raw)
	if minBytes > 0 && len(b) < minBytes {
		return nil, ErrSecretTooShort
	}
	return b, nil
}

// SecretConfigured reports whether the env secret is present (non-empty after trim).
// Note: this does not enforce minimum length. Use SecretFromEnv for policy checks.
func SecretConfigured() bool {
	return strings.TrimSpace(os.Getenv(SecretEnvKey)) != ""
}
