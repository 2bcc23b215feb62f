package paymentapi

import (
	"os"
	"strconv"
	"strings"
)

// Config carries HTTP-surface settings for the payments API.
type Config struct {
	// MaxBodyBytes caps request body size for JSON endpoints.
	MaxBodyBytes int64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{MaxBodyBytes: 1 << 20}
}

// FromEnv loads Config from the environment on top of defaults.
//
//	PAGO_PAYMENTS_MAX_BODY_BYTES
func FromEnv() Config {
	cfg := DefaultConfig()
	if raw := strings.TrimSpace(os.Getenv("PAGO_PAYMENTS_MAX_BODY_BYTES")); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			cfg.MaxBodyBytes = v
		}
	}
	return cfg
}
