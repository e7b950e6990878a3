package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt digest; the plaintext never touches storage.
type User struct {
	ID            string
	Email         string // always the normalized form
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeEmail returns the canonical form used for all lookups and the
// uniqueness check: trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
