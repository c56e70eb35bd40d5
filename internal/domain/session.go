package domain

import (
	"context"
	"time"
)

// Session is a server-side login session. The client holds a signed token
// whose token ID (jti) references this row; revoking the row logs out the
// client regardless of the token's expiry.
type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	TokenID   string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SessionRepository defines storage for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenID(ctx context.Context, tokenID string) (*Session, error)
	Revoke(ctx context.Context, tokenID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// TokenIssuer issues a signed session token for an authenticated user.
// tokenID ties the token to a sessions row.
type TokenIssuer interface {
	Issue(userID, tokenID string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session token and returns the user and token IDs.
type TokenVerifier interface {
	Verify(token string) (userID, tokenID string, err error)
}

// AuthService defines signup, login, logout, and password reset.
type AuthService interface {
	SignUp(ctx context.Context, username, email, password, name string) (*User, error)
	// Login accepts a username or an email as the identifier and returns the
	// signed session token together with the authenticated user.
	Login(ctx context.Context, identifier, password string) (token string, user *User, err error)
	Logout(ctx context.Context, tokenID string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
