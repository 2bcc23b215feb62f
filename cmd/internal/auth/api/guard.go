package authapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pago/cmd/security/token"
)

// Identity is the per-request authenticated identity produced by decoding a
// valid session token. It lives only for the request and is discarded after.
type Identity struct {
	Subject string
}

type identityContextKey struct{}

// IdentityFromContext returns the Identity attached by Guard.Require, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// Guard is the request-authorization gate for protected routes.
// Every request is authenticated independently: no caching across requests,
// no retries, no server-side session state.
type Guard struct {
	codec *token.Codec
}

// NewGuard constructs a Guard over the process-wide token codec.
func NewGuard(codec *token.Codec) *Guard {
	return &Guard{codec: codec}
}

// Require wraps next so its body only executes for requests carrying a valid
// "Bearer <token>" Authorization header whose claims name a subject.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims, err := g.codec.Decode(raw, time.Now().UTC())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		sub := strings.TrimSpace(claims.Subject)
		if sub == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, Identity{Subject: sub})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireActiveIdentity is the second, defensive gate behind Require: a
// protected handler must hold an identity with a non-empty subject. Failing
// here is a client error (400), deliberately distinct from the 401 the guard
// itself produces.
func RequireActiveIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok || strings.TrimSpace(id.Subject) == "" {
		writeError(w, http.StatusBadRequest, "inactive_user", "inactive user")
		return Identity{}, false
	}
	return id, true
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
