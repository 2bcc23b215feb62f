package identity

import (
	"context"
	"sync"
)

// MemoryStore is a dev-only fallback when no database is configured,
// and the store double used in tests. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]Account // normalized email -> account
}

// NewMemoryStore constructs an empty in-memory Store implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]Account)}
}

// FindByEmail looks up an account by normalized email.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, OpError{Op: "identity.FindByEmail", Kind: ErrUnavailable}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[NormalizeEmail(email)]
	if !ok {
		return Account{}, NotFoundError{Op: "identity.FindByEmail", Resource: "account"}
	}
	return acc, nil
}

// Insert persists a new account, enforcing email uniqueness under the lock.
func (s *MemoryStore) Insert(ctx context.Context, acc Account) error {
	if err := ctx.Err(); err != nil {
		return OpError{Op: "identity.Insert", Kind: ErrUnavailable}
	}

	key := NormalizeEmail(acc.Email)
	if key == "" {
		return OpError{Op: "identity.Insert", Kind: ErrInvalidInput, Msg: "empty email"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[key]; exists {
		return ConflictError{Op: "identity.Insert", Field: "email"}
	}
	s.accounts[key] = acc
	return nil
}
