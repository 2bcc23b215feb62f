package password

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the hard bcrypt input limit; bytes beyond it are
// silently ignored by the algorithm, so we reject instead.
const maxPasswordBytes = 72

// Policy controls password validation boundaries.
type Policy struct {
	MinLength int
	MaxLength int
}

// Config is the single configuration surface for this package.
type Config struct {
	// Cost is the bcrypt work factor. Higher is slower and stronger.
	Cost   int
	Policy Policy
}

// DefaultConfig returns a baseline suitable for interactive logins.
// Values can be overridden via env.
func DefaultConfig() Config {
	return Config{
		Cost: bcrypt.DefaultCost,
		Policy: Policy{
			MinLength: 8,
			MaxLength: maxPasswordBytes,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - PAGO_PASSWORD_MIN_LEN
// - PAGO_PASSWORD_MAX_LEN
// - PAGO_BCRYPT_COST
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("PAGO_PASSWORD_MIN_LEN"); ok {
		n, err := atoiRange(v, 1, maxPasswordBytes)
		if err != nil {
			return Config{}, fmt.Errorf("PAGO_PASSWORD_MIN_LEN: %w", err)
		}
		cfg.Policy.MinLength = n
	}

	if v, ok := os.LookupEnv("PAGO_PASSWORD_MAX_LEN"); ok {
		n, err := atoiRange(v, 1, maxPasswordBytes)
		if err != nil {
			return Config{}, fmt.Errorf("PAGO_PASSWORD_MAX_LEN: %w", err)
		}
		cfg.Policy.MaxLength = n
	}

	if v, ok := os.LookupEnv("PAGO_BCRYPT_COST"); ok {
		n, err := atoiRange(v, bcrypt.MinCost, bcrypt.MaxCost)
		if err != nil {
			return Config{}, fmt.Errorf("PAGO_BCRYPT_COST: %w", err)
		}
		cfg.Cost = n
	}

	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, fmt.Errorf(
			"password policy invalid: min_len(%d) > max_len(%d)",
			cfg.Policy.MinLength,
			cfg.Policy.MaxLength,
		)
	}

	return cfg, nil
}

// Validate checks a candidate password against the policy.
func (c Config) Validate(password string) error {
	if len(password) < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	maxLen := c.Policy.MaxLength
	if maxLen <= 0 || maxLen > maxPasswordBytes {
		maxLen = maxPasswordBytes
	}
	if len(password) > maxLen {
		return ErrPasswordTooLong
	}
	return nil
}

func atoiRange(s string, minVal, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	i64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}

	i := int(i64)
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return i, nil
}
