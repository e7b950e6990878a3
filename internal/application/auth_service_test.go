package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/habbitapp/habbit/pkg/helpers"
)

const testVerifyPrefix = "http://localhost:8080/verify?token="

type authFixture struct {
	svc      *AuthService
	sessions *SessionService
	users    *memUsers
	tokens   *memTokens
	store    *memSessions
	mail     *fakeMailer
}

func newAuthFixture() *authFixture {
	users := newMemUsers()
	tokens := newMemTokens()
	store := newMemSessions()
	mail := &fakeMailer{}

	jwtm := helpers.NewJWTManager("test-secret", 30*24*time.Hour)
	sessions := NewSessionService(jwtm, store, nil)
	svc := NewAuthService(users, tokens, sessions, mail, nil,
		func(secret string) string { return testVerifyPrefix + secret },
		24*time.Hour,
	)
	return &authFixture{svc: svc, sessions: sessions, users: users, tokens: tokens, store: store, mail: mail}
}

func (f *authFixture) lastSecret(t *testing.T) string {
	t.Helper()
	link := f.mail.last().Link
	require.True(t, strings.HasPrefix(link, testVerifyPrefix))
	return strings.TrimPrefix(link, testVerifyPrefix)
}

func TestRegister_CreatesUnverifiedUserAndToken(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.svc.WithClock(func() time.Time { return t0 })

	u, err := f.svc.Register(ctx, " Alice@Example.COM ", "password123")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.False(t, u.EmailVerified)

	stored, err := f.users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.False(t, stored.EmailVerified)
	require.NotEqual(t, "password123", stored.PasswordHash)

	require.Equal(t, 1, f.tokens.count())
	for _, tok := range f.tokens.byDigest {
		require.Equal(t, u.ID, tok.UserID)
		require.Equal(t, "verify", tok.Purpose)
		require.Equal(t, t0.Add(24*time.Hour), tok.ExpiresAt)
	}

	require.Equal(t, 1, f.mail.count())
	require.Equal(t, "alice@example.com", f.mail.last().To)
	// the mailed link carries the secret, not the digest
	secret := f.lastSecret(t)
	_, ok := f.tokens.byDigest[secret]
	require.False(t, ok)
	_, ok = f.tokens.byDigest[helpers.DigestToken(secret)]
	require.True(t, ok)
}

func TestRegister_NormalizedEmailConflict(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "User@Foo.com ", "password123")
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "user@foo.com", "otherpassword")
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()

	_, err := f.svc.Register(context.Background(), "bob@example.com", "short7!")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, 0, f.tokens.count())
}

func TestRegister_DeliveryFailureKeepsRecords(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()
	f.mail.fail = errors.New("smtp down")

	_, err := f.svc.Register(ctx, "carol@example.com", "password123")
	require.ErrorIs(t, err, ErrDeliveryFailed)

	// user and token are not rolled back; resend covers this state
	_, err = f.users.GetByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, f.tokens.count())
}

func TestLogin_BeforeVerificationIsNotVerified(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	// correct password, unverified account: distinct from invalid credentials
	_, _, _, err = f.svc.Login(ctx, "alice@example.com", "password123")
	require.ErrorIs(t, err, ErrNotVerified)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, _, err = f.svc.Login(ctx, "alice@example.com", "wrongpassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// still invalid credentials after verification, not something else
	require.NoError(t, f.svc.VerifyEmail(ctx, f.lastSecret(t)))
	_, _, _, err = f.svc.Login(ctx, "alice@example.com", "wrongpassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()

	_, _, _, err := f.svc.Login(context.Background(), "ghost@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_SuccessIssuesSession(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(ctx, f.lastSecret(t)))

	got, bearer, exp, err := f.svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NotEmpty(t, bearer)
	require.WithinDuration(t, time.Now().Add(30*24*time.Hour), exp, 5*time.Second)

	uid, ok := f.sessions.Validate(ctx, bearer)
	require.True(t, ok)
	require.Equal(t, u.ID, uid)
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	secret := f.lastSecret(t)

	require.NoError(t, f.svc.VerifyEmail(ctx, secret))
	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, stored.EmailVerified)

	// the record is gone; a second presentation is indistinguishable from
	// a token that never existed
	require.ErrorIs(t, f.svc.VerifyEmail(ctx, secret), ErrInvalidToken)
}

func TestVerifyEmail_ExpiredIsConsumed(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.svc.WithClock(func() time.Time { return t0 })

	_, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	secret := f.lastSecret(t)

	f.svc.WithClock(func() time.Time { return t0.Add(25 * time.Hour) })
	require.ErrorIs(t, f.svc.VerifyEmail(ctx, secret), ErrExpiredToken)

	// expired handling consumed the token; retrying cannot resurrect it
	require.ErrorIs(t, f.svc.VerifyEmail(ctx, secret), ErrInvalidToken)

	stored, err := f.users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.False(t, stored.EmailVerified)
}

func TestVerifyEmail_UnknownOrEmptySecret(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	require.ErrorIs(t, f.svc.VerifyEmail(ctx, "no-such-secret"), ErrInvalidToken)
	require.ErrorIs(t, f.svc.VerifyEmail(ctx, ""), ErrInvalidToken)
}

func TestResend_UnknownEmailStillSucceeds(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()

	require.NoError(t, f.svc.ResendVerification(context.Background(), "ghost@example.com"))
	require.Equal(t, 0, f.mail.count())
	require.Equal(t, 0, f.tokens.count())
}

func TestResend_MintsFreshTokenAndKeepsOldValid(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	first := f.lastSecret(t)

	require.NoError(t, f.svc.ResendVerification(ctx, "Alice@Example.com"))
	require.Equal(t, 2, f.tokens.count())
	require.NotEqual(t, first, f.lastSecret(t))

	// prior tokens stay independently valid until their own expiry
	require.NoError(t, f.svc.VerifyEmail(ctx, first))
}

func TestResend_DeliveryFailureDoesNotLeakExistence(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	f.mail.fail = errors.New("smtp down")
	require.NoError(t, f.svc.ResendVerification(ctx, "alice@example.com"))
}

func TestLogout_RevokesSession(t *testing.T) {
	t.Parallel()
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(ctx, f.lastSecret(t)))

	_, bearer, _, err := f.svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, bearer))
	_, ok := f.sessions.Validate(ctx, bearer)
	require.False(t, ok)

	// logging out twice, or with no session at all, is a no-op
	require.NoError(t, f.svc.Logout(ctx, bearer))
	require.NoError(t, f.svc.Logout(ctx, ""))
}
