package repository

import (
	"context"
	"errors"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PasswordResetRepository struct {
	DB *db.Postgres
}

func (r PasswordResetRepository) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) (*domain.PasswordReset, error) {
	var pr domain.PasswordReset
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO password_resets (user_id, token, expires_at, created_at)
		VALUES ($1,$2,$3, now())
		RETURNING id, user_id, token, expires_at, used_at, created_at
	`, userID, token, expiresAt).Scan(&pr.ID, &pr.UserID, &pr.Token, &pr.ExpiresAt, &pr.UsedAt, &pr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// Consume marks an unused, unexpired token as used and returns it. Expired or
// already-used tokens come back as ErrNotFound.
func (r PasswordResetRepository) Consume(ctx context.Context, token string) (*domain.PasswordReset, error) {
	var pr domain.PasswordReset
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE password_resets
		SET used_at = now()
		WHERE token=$1 AND used_at IS NULL AND expires_at > now()
		RETURNING id, user_id, token, expires_at, used_at, created_at
	`, token).Scan(&pr.ID, &pr.UserID, &pr.Token, &pr.ExpiresAt, &pr.UsedAt, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}
