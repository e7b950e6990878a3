package repository

import (
	"context"
	"time"
)

// SessionStore keeps the revocable server-side half of a session. Records
// are keyed by the digest of the bearer value, never the value itself, and
// expire on their own at the bearer's expiry.
type SessionStore interface {
	Put(ctx context.Context, digest, userID string, expiresAt time.Time) error
	// Get returns the owning user id, or ErrNotFound when the record is
	// missing or already expired.
	Get(ctx context.Context, digest string) (string, error)
	// Delete is a no-op when no record matches.
	Delete(ctx context.Context, digest string) error
}
