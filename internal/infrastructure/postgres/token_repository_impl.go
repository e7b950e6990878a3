package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habbitapp/habbit/internal/domain/entity"
	"github.com/habbitapp/habbit/internal/domain/repository"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Create(ctx context.Context, t *entity.VerificationToken) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO verification_tokens (user_id, token_digest, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.UserID, t.TokenDigest, t.Purpose, t.ExpiresAt)

	return row.Scan(&t.ID, &t.CreatedAt)
}

// Consume deletes the matching token and returns it in a single statement.
// Concurrent presentations of the same secret see exactly one winner; the
// losing request gets ErrNotFound because the row no longer exists.
func (r *TokenRepository) Consume(ctx context.Context, digest, purpose string) (*entity.VerificationToken, error) {
	t := &entity.VerificationToken{TokenDigest: digest, Purpose: purpose}
	row := r.pool.QueryRow(ctx, `
		DELETE FROM verification_tokens
		WHERE token_digest = $1 AND purpose = $2
		RETURNING id, user_id, expires_at, created_at
	`, digest, purpose)

	if err := row.Scan(&t.ID, &t.UserID, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
