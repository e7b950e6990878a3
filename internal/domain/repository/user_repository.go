package repository

import (
	"context"
	"errors"

	"github.com/habbitapp/habbit/internal/domain/entity"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by Create when the normalized email is
// already taken. The store enforces this atomically with the insert.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the credential-store contract.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetVerified(ctx context.Context, id string) error
}
