package identity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pago/cmd/identity/ids"
	"pago/cmd/security/password"
	"pago/cmd/security/token"
)

// TokenType is the fixed marker returned alongside issued access tokens.
const TokenType = "bearer"

// Token is the result of a successful Login.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Service orchestrates Signup and Login over the credential store,
// password hasher, and token codec. It holds no mutable state after
// construction and is safe for concurrent use.
type Service struct {
	log       *slog.Logger
	store     Store
	passwords password.Config
	tokens    *token.Codec

	// dummyHash keeps Login cost symmetric when the identifier is unknown.
	dummyHash string
}

// NewService constructs an account Service.
func NewService(log *slog.Logger, store Store, passwords password.Config, tokens *token.Codec) *Service {
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		log:       log,
		store:     store,
		passwords: passwords,
		tokens:    tokens,
	}

	// Dummy hash for timing-resistant login checks.
	if hash, err := passwords.Hash("dummy-password-for-timing-only"); err == nil {
		s.dummyHash = hash
	}

	return s
}

// Signup registers a new account: uniqueness check, hash, persist.
//
// The lookup-then-insert below is not atomic; two concurrent signups for the
// same email can both pass the lookup. The store's unique index on email is
// the authority — the loser of the race gets the same ConflictError from
// Insert that the lookup would have produced.
func (s *Service) Signup(ctx context.Context, email, plaintext string) error {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return OpError{Op: "identity.Signup", Kind: ErrInvalidInput, Msg: "email is required"}
	}
	if err := s.passwords.Validate(plaintext); err != nil {
		return OpError{Op: "identity.Signup", Kind: ErrInvalidInput, Msg: err.Error()}
	}

	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ConflictError{Op: "identity.Signup", Field: "email"}
	case IsNotFound(err):
		// Fresh email; proceed.
	default:
		return err
	}

	digest, err := s.passwords.Hash(plaintext)
	if err != nil {
		return OpError{Op: "identity.Signup", Kind: ErrInvalidInput, Msg: err.Error()}
	}

	now := time.Now().UTC()
	id, err := ids.NewULID(now)
	if err != nil {
		return OpError{Op: "identity.Signup", Kind: ErrUnavailable, Msg: "id generation failed"}
	}

	if err := s.store.Insert(ctx, Account{
		ID:           id,
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    now,
	}); err != nil {
		return err
	}

	s.log.Info("identity.signup.ok", "account_id", id)
	return nil
}

// Login verifies credentials and issues a session token.
//
// Unknown email and wrong password share one error path (invalidCredentials)
// so the response shape cannot be used to enumerate accounts. A dummy verify
// keeps the unknown-email branch from returning measurably faster.
func (s *Service) Login(ctx context.Context, email, plaintext string) (Token, error) {
	email = NormalizeEmail(email)
	if email == "" || plaintext == "" {
		return Token{}, OpError{Op: "identity.Login", Kind: ErrInvalidInput, Msg: "email and password are required"}
	}

	acc, err := s.store.FindByEmail(ctx, email)
	switch {
	case IsNotFound(err):
		if s.dummyHash != "" {
			_, _ = s.passwords.Verify(s.dummyHash, plaintext)
		}
		return Token{}, invalidCredentials()
	case err != nil:
		return Token{}, err
	}

	ok, err := s.passwords.Verify(acc.PasswordHash, plaintext)
	if err != nil || !ok {
		return Token{}, invalidCredentials()
	}

	now := time.Now().UTC()
	signed, exp, err := s.tokens.Encode(acc.Email, now)
	if err != nil {
		return Token{}, OpError{Op: "identity.Login", Kind: ErrUnavailable, Msg: "token issuance failed"}
	}

	s.log.Info("identity.login.ok", "account_id", acc.ID)
	return Token{
		AccessToken: signed,
		TokenType:   TokenType,
		ExpiresAt:   exp,
	}, nil
}
