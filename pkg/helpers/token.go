package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// GenerateToken returns a fresh random secret and its sha256 digest.
// The secret goes to the user (256 bits, base64url); only the digest is
// ever persisted, so a read-only store leak yields nothing replayable.
func GenerateToken() (secret string, digest string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	secret = base64.RawURLEncoding.EncodeToString(b)
	return secret, DigestToken(secret), nil
}

// DigestToken recomputes the stored digest for a presented secret.
func DigestToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
