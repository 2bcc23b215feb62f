package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hash hashes a password using bcrypt and returns the encoded digest string.
// Format: $2a$<cost>$<salt+hash> (modular crypt format, salt embedded).
// bcrypt draws a fresh random salt per call, so two hashes of the same
// password never compare equal as strings.
func (c Config) Hash(password string) (string, error) {
	if err := c.Validate(password); err != nil {
		return "", err
	}

	cost := c.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify checks whether password matches the given encoded digest.
// Returns (true, nil) for a match, (false, nil) for mismatch,
// and (false, ErrInvalidHash) for malformed/unsupported digests.
// The underlying comparison is constant-time per bcrypt's contract.
func (c Config) Verify(encodedHash, password string) (bool, error) {
	if !strings.HasPrefix(encodedHash, "$2") {
		return false, ErrInvalidHash
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}
