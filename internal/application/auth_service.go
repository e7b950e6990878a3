package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/habbitapp/habbit/internal/domain/entity"
	"github.com/habbitapp/habbit/internal/domain/repository"
	"github.com/habbitapp/habbit/pkg/helpers"
)

// MinPasswordLen is the registration password policy.
const MinPasswordLen = 8

// Mailer is the outbound email capability consumed by registration and
// resend. The link embeds the raw verification secret.
type Mailer interface {
	SendVerification(ctx context.Context, to, link string) error
}

// AuthService orchestrates credential registration, email verification and
// login on top of the store contracts.
type AuthService struct {
	Users    repository.UserRepository
	Tokens   repository.TokenRepository
	Sessions *SessionService
	Mailer   Mailer
	Logger   *logrus.Logger

	// VerifyURL builds the public link a fresh secret is mailed in.
	VerifyURL func(secret string) string
	// TokenTTL is the verification-token lifetime (24h in production).
	TokenTTL time.Duration

	now func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, sessions *SessionService, mailer Mailer, logger *logrus.Logger, verifyURL func(string) string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		Users:     users,
		Tokens:    tokens,
		Sessions:  sessions,
		Mailer:    mailer,
		Logger:    logger,
		VerifyURL: verifyURL,
		TokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Register creates an unverified user, mints a verification token and
// dispatches the verification email. A failed dispatch surfaces
// ErrDeliveryFailed while the user and token stay in place; resend covers
// that state.
func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || len(password) < MinPasswordLen {
		return nil, ErrInvalidInput
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, PasswordHash: hash, EmailVerified: false}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := s.issueVerification(ctx, u); err != nil {
		return u, err
	}
	return u, nil
}

// ResendVerification always reports success to the caller so responses do
// not disclose whether an account exists. Prior tokens stay valid until
// their own expiry.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.issueVerification(ctx, u); err != nil {
		// delivery problems must not leak account existence either
		if errors.Is(err, ErrDeliveryFailed) {
			return nil
		}
		return err
	}
	return nil
}

func (s *AuthService) issueVerification(ctx context.Context, u *entity.User) error {
	secret, digest, err := helpers.GenerateToken()
	if err != nil {
		return err
	}
	tok := &entity.VerificationToken{
		UserID:      u.ID,
		TokenDigest: digest,
		Purpose:     entity.PurposeVerify,
		ExpiresAt:   s.now().Add(s.TokenTTL),
	}
	if err := s.Tokens.Create(ctx, tok); err != nil {
		return err
	}
	if err := s.Mailer.SendVerification(ctx, u.Email, s.VerifyURL(secret)); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("verification email dispatch failed")
		}
		return ErrDeliveryFailed
	}
	return nil
}

// VerifyEmail consumes the presented secret exactly once. An expired token
// is still consumed, so retrying it later yields ErrInvalidToken.
func (s *AuthService) VerifyEmail(ctx context.Context, secret string) error {
	if secret == "" {
		return ErrInvalidToken
	}
	tok, err := s.Tokens.Consume(ctx, helpers.DigestToken(secret), entity.PurposeVerify)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if tok.Expired(s.now()) {
		return ErrExpiredToken
	}
	return s.Users.SetVerified(ctx, tok.UserID)
}

// Login checks credentials first and verification status second; the two
// failures carry distinct errors so the client can route to retry versus
// resend. A lookup miss still pays for a hash comparison so the response
// time does not reveal whether the email is registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	email = entity.NormalizeEmail(email)
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		helpers.CompareHashAndPassword(helpers.DummyPasswordHash, password)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !u.EmailVerified {
		return nil, "", time.Time{}, ErrNotVerified
	}
	bearer, exp, err := s.Sessions.Issue(ctx, u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return u, bearer, exp, nil
}

// GetUser loads a user by id for authenticated requests.
func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return s.Users.GetByID(ctx, id)
}

// Logout revokes the session behind the presented bearer value; absent or
// already-revoked sessions are a no-op.
func (s *AuthService) Logout(ctx context.Context, bearer string) error {
	if bearer == "" {
		return nil
	}
	return s.Sessions.Clear(ctx, bearer)
}
