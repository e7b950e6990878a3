package repository

import (
	"context"

	"github.com/habbitapp/habbit/internal/domain/entity"
)

// TokenRepository defines the verification-token store contract.
//
// Consume deletes the token matching the digest and returns it in one
// atomic step, so two requests racing on the same secret see exactly one
// winner; the loser gets ErrNotFound because the record is already gone.
// Expired tokens are returned (and still deleted) so the caller can
// distinguish expired from unknown.
type TokenRepository interface {
	Create(ctx context.Context, t *entity.VerificationToken) error
	Consume(ctx context.Context, digest, purpose string) (*entity.VerificationToken, error)
}
