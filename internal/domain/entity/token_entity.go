package entity

import "time"

// PurposeVerify tags tokens minted for email verification.
const PurposeVerify = "verify"

// VerificationToken is a single-use credential referencing its owning user.
// TokenDigest is the sha256 of the secret mailed to the user; the secret
// itself is never persisted.
type VerificationToken struct {
	ID          string
	UserID      string
	TokenDigest string
	Purpose     string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *VerificationToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
