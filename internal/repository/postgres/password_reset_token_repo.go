package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhubconnect/internal/domain"
)

type passwordResetTokenRepository struct {
	DB *sql.DB
}

// NewPasswordResetTokenRepository returns a domain.PasswordResetTokenRepository implemented with Postgres.
func NewPasswordResetTokenRepository(db *sql.DB) domain.PasswordResetTokenRepository {
	return &passwordResetTokenRepository{DB: db}
}

func (r *passwordResetTokenRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, userID, tokenHash, expiresAt)
	return err
}

func (r *passwordResetTokenRepository) Consume(ctx context.Context, tokenHash string) (string, bool, error) {
	var userID string
	query := `
		UPDATE password_reset_tokens
		SET used = TRUE
		WHERE token_hash = $1 AND used = FALSE AND expires_at > NOW()
		RETURNING user_id
	`
	err := r.DB.QueryRowContext(ctx, query, tokenHash).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return userID, true, nil
}
