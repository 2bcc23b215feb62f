package identity

import (
	"context"
	"time"
)

// Account is Pago's canonical security principal.
// IMPORTANT: PasswordHash is an opaque one-way digest with embedded salt and
// cost parameters; the plaintext password is never persisted or logged.
type Account struct {
	ID           string
	Email        string
	PasswordHash string

	CreatedAt time.Time
}

// Store is the credential persistence boundary.
//
// Contract:
//   - FindByEmail returns a NotFoundError when no account matches.
//   - Insert returns a ConflictError when the email is already taken; the
//     backing store SHOULD enforce this with a unique index so concurrent
//     inserts cannot both succeed.
//   - Any unreachable-backend failure maps to ErrUnavailable, never a raw
//     driver error.
type Store interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	Insert(ctx context.Context, acc Account) error
}
