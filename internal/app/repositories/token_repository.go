package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ncastell/classtrack/internal/db"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

// TokenRepository stores opaque refresh tokens.
type TokenRepository struct {
	db *db.PostgresDB
}

func NewTokenRepository(database *db.PostgresDB) *TokenRepository {
	return &TokenRepository{db: database}
}

// Store saves a refresh token for a user.
func (r *TokenRepository) Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Consume looks up a refresh token, deletes it and returns the owning
// user ID. Expired or unknown tokens fail with ErrRefreshTokenNotFound.
func (r *TokenRepository) Consume(ctx context.Context, token string) (int64, error) {
	var userID int64
	var expiresAt time.Time
	err := r.db.Pool.QueryRow(ctx, `
		DELETE FROM refresh_tokens WHERE token = $1
		RETURNING user_id, expires_at`, token).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrRefreshTokenNotFound
		}
		return 0, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if time.Now().After(expiresAt) {
		return 0, apperrors.ErrExpiredToken
	}
	return userID, nil
}

// DeleteForUser revokes every refresh token a user holds.
func (r *TokenRepository) DeleteForUser(ctx context.Context, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}
	return nil
}

// DeleteExpired removes tokens past their expiry.
func (r *TokenRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return nil
}
