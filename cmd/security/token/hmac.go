package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashHMACSHA256Hex returns an HMAC-SHA256 hex digest of s using key.
// Used for payment-gateway signature verification; output is stable 64-char hex.
func HashHMACSHA256Hex(s string, key []byte) string {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(s))
	return hex.EncodeToString(m.Sum(nil))
}

// VerifyHMACSHA256Hex reports whether wantHex is the HMAC-SHA256 hex digest
// of s under key. The comparison is constant-time.
func VerifyHMACSHA256Hex(s string, key []byte, wantHex string) bool {
	got := HashHMACSHA256Hex(s, key)
	return hmac.Equal([]byte(got), []byte(wantHex))
}
