package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/habbitapp/habbit/internal/domain/repository"
)

func sessionKey(digest string) string {
	return "session:" + digest
}

// SessionStore keeps session records in Redis keyed by the bearer digest,
// with the TTL carrying the expiry. Records disappear on their own; Delete
// covers logout.
type SessionStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb, now: time.Now}
}

func (s *SessionStore) Put(ctx context.Context, digest, userID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	return s.rdb.Set(ctx, sessionKey(digest), userID, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, digest string) (string, error) {
	uid, err := s.rdb.Get(ctx, sessionKey(digest)).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return uid, nil
}

func (s *SessionStore) Delete(ctx context.Context, digest string) error {
	return s.rdb.Del(ctx, sessionKey(digest)).Err()
}

var _ repository.SessionStore = (*SessionStore)(nil)
