package domain

import (
	"context"
	"time"
)

// PasswordResetTokenRepository defines storage for single-use password reset
// tokens. Only a hash of the token is stored.
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// Consume marks the token used and returns the owning user ID. It returns
	// consumed=false when the token is unknown, expired, or already used.
	Consume(ctx context.Context, tokenHash string) (userID string, consumed bool, err error)
}
