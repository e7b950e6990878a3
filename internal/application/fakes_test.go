package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/habbitapp/habbit/internal/domain/entity"
	"github.com/habbitapp/habbit/internal/domain/repository"
)

// In-memory store fakes honoring the repository contracts, including the
// single-winner Consume semantics and email uniqueness.

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
	seq  int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{}}
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("u-%d", m.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) SetVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.EmailVerified = true
	return nil
}

type memTokens struct {
	mu       sync.Mutex
	byDigest map[string]*entity.VerificationToken
	seq      int
}

func newMemTokens() *memTokens {
	return &memTokens{byDigest: map[string]*entity.VerificationToken{}}
}

func (m *memTokens) Create(_ context.Context, t *entity.VerificationToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = fmt.Sprintf("t-%d", m.seq)
	t.CreatedAt = time.Now()
	cp := *t
	m.byDigest[t.TokenDigest] = &cp
	return nil
}

func (m *memTokens) Consume(_ context.Context, digest, purpose string) (*entity.VerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byDigest[digest]
	if !ok || t.Purpose != purpose {
		return nil, repository.ErrNotFound
	}
	delete(m.byDigest, digest)
	return t, nil
}

func (m *memTokens) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byDigest)
}

type sessionRec struct {
	userID    string
	expiresAt time.Time
}

type memSessions struct {
	mu       sync.Mutex
	byDigest map[string]sessionRec
	gets     int
}

func newMemSessions() *memSessions {
	return &memSessions{byDigest: map[string]sessionRec{}}
}

func (m *memSessions) Put(_ context.Context, digest, userID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byDigest[digest] = sessionRec{userID: userID, expiresAt: expiresAt}
	return nil
}

func (m *memSessions) Get(_ context.Context, digest string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	rec, ok := m.byDigest[digest]
	if !ok || rec.expiresAt.Before(time.Now()) {
		return "", repository.ErrNotFound
	}
	return rec.userID, nil
}

func (m *memSessions) Delete(_ context.Context, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byDigest, digest)
	return nil
}

func (m *memSessions) getCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

type sentMail struct {
	To   string
	Link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *fakeMailer) SendVerification(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, Link: link})
	return nil
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
