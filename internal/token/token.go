package token // package token mints opaque bearer tokens and their one-way hashes

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing of raw tokens
	"encoding/hex"  // hex encoding of random bytes and digests
	"fmt"           // error wrapping
)

// Byte lengths for each token family.  Invitation and backlink tokens
// use 24 bytes (192 bits); magic links and session cookies use 32.
const (
	InviteBytes  = 24
	SessionBytes = 32
)

// Issue returns a fresh random token as a hex string together with its
// SHA-256 hex digest.  Only the hash may ever be persisted; the raw
// value exists solely in transit (URL, cookie, email).  A CSPRNG
// failure is returned as an error and must be treated as fatal by the
// caller -- there is no weaker fallback.
func Issue(byteLen int) (raw, hash string, err error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("token: csprng failed: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, Hash(raw), nil
}

// Hash returns the SHA-256 hex digest of a raw token.  It is
// deterministic so stored hashes can be looked up directly.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
