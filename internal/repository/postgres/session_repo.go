package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhubconnect/internal/domain"
)

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{DB: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (user_id, token_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, s.UserID, s.TokenID, s.ExpiresAt, s.CreatedAt).Scan(&s.ID)
}

func (r *sessionRepository) GetByTokenID(ctx context.Context, tokenID string) (*domain.Session, error) {
	query := `
		SELECT id, user_id, token_id, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token_id = $1
	`
	s := &domain.Session{}
	var revokedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, tokenID).Scan(&s.ID, &s.UserID, &s.TokenID, &s.ExpiresAt, &revokedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	return s, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, tokenID string) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE token_id = $1 AND revoked_at IS NULL`
	result, err := r.DB.ExecContext(ctx, query, tokenID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
