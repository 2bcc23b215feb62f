// Package token provides the stateless session-token codec for Pago.
//
// It is the single source of truth for token issuance and verification.
//
// Design goals:
// - Compact three-segment JWT (header.payload.signature), HMAC-SHA256 signed.
// - Fixed expiry applied at issuance (default 30 minutes).
// - All decode failures (malformed, bad signature, expired) collapse into the
//   single ErrInvalidToken sentinel; callers never learn which check failed.
//
// Environment:
// - PAGO_TOKEN_SECRET: symmetric signing secret, required in production.
// Policy:
//   - If RequireTokenSecret=true at startup, callers MUST enforce a minimum
//     secret size (>= 32 bytes) and MUST NOT fall back to a generated secret.
package token
