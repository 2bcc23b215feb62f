// Package password provides password hashing and verification utilities for Pago.
//
// It implements bcrypt hashing with a per-call random salt and includes:
// - Configurable bcrypt cost (via environment variables)
// - Password policy validation
// - Strict digest handling during verification
//
// Security notes:
// - Digest strings are treated as untrusted input during Verify.
// - Plaintext passwords never leave this package and must never be logged.
package password
