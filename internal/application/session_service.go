package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/habbitapp/habbit/internal/domain/repository"
	"github.com/habbitapp/habbit/pkg/helpers"
)

// SessionService issues and validates hybrid session tokens: a signed
// bearer value that carries its own expiry, paired with a revocable store
// record keyed by the bearer's digest. Both halves are written in one
// Issue call with the same expiry.
type SessionService struct {
	JWT    *helpers.JWTManager
	Store  repository.SessionStore
	Logger *logrus.Logger
}

func NewSessionService(jwt *helpers.JWTManager, store repository.SessionStore, logger *logrus.Logger) *SessionService {
	return &SessionService{JWT: jwt, Store: store, Logger: logger}
}

// Issue mints a bearer value for the user and records the session.
func (s *SessionService) Issue(ctx context.Context, userID string) (string, time.Time, error) {
	bearer, exp, err := s.JWT.GenerateSessionToken(userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("generate session token failed")
		}
		return "", time.Time{}, err
	}
	if err := s.Store.Put(ctx, helpers.DigestToken(bearer), userID, exp); err != nil {
		return "", time.Time{}, err
	}
	return bearer, exp, nil
}

// Validate checks the bearer's signature and embedded expiry first, so
// forged or stale input is rejected without touching the store, then
// requires a live store record. A missing record means the session was
// revoked even though the bearer itself still verifies.
func (s *SessionService) Validate(ctx context.Context, bearer string) (string, bool) {
	claims, err := s.JWT.ParseSessionToken(bearer)
	if err != nil {
		return "", false
	}
	uid, err := s.Store.Get(ctx, helpers.DigestToken(bearer))
	if err != nil {
		return "", false
	}
	if uid != claims.UserID {
		return "", false
	}
	return uid, true
}

// Clear revokes the session for the presented bearer value. Calling it
// with no matching record is a no-op.
func (s *SessionService) Clear(ctx context.Context, bearer string) error {
	return s.Store.Delete(ctx, helpers.DigestToken(bearer))
}
