package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by Pago session tokens.
// The authenticated identity lives in the registered "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
}

// Codec encodes and decodes signed, expiring session tokens.
// It holds the process-wide secret and is read-only after construction,
// so a single Codec is safe for concurrent use.
type Codec struct {
	cfg Config
}

// NewCodec constructs a Codec. The secret must be non-empty; minimum-length
// policy is enforced separately at startup (see app security policy).
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretMissing
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Codec{cfg: cfg}, nil
}

// TTL returns the fixed expiry duration applied at issuance.
func (c *Codec) TTL() time.Duration { return c.cfg.TTL }

// Encode serializes the subject plus a computed expiry (now + TTL) into a
// signed, URL-safe compact JWT. Returns the token and its expiry instant.
func (c *Codec) Encode(subject string, now time.Time) (string, time.Time, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	exp := now.Add(c.cfg.TTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.cfg.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Decode verifies signature and expiry and returns the embedded claims.
// Verification order: structural parse -> signature -> expiry; the first
// failure short-circuits and every failure surfaces as ErrInvalidToken.
// Decode is side-effect-free.
func (c *Codec) Decode(tokenString string, now time.Time) (Claims, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var claims Claims
	tok, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(_ *jwt.Token) (any, error) { return c.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
