package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"eventhubconnect/internal/domain"
)

type fakeUserRepo struct {
	byEmail    map[string]*domain.User
	byUsername map[string]*domain.User
	created    []*domain.User
	createErr  error

	passwordUpdatedFor string
}

func (m *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	u.ID = "user-new"
	m.created = append(m.created, u)
	return nil
}

func (m *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (m *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *fakeUserRepo) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (m *fakeUserRepo) UpdateRole(ctx context.Context, id, role string) error { return nil }

func (m *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash, salt string) error {
	m.passwordUpdatedFor = id
	return nil
}

type fakeSessionRepo struct {
	created []*domain.Session
	revoked []string
	missing bool
}

func (m *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	s.ID = "session-1"
	m.created = append(m.created, s)
	return nil
}

func (m *fakeSessionRepo) GetByTokenID(ctx context.Context, tokenID string) (*domain.Session, error) {
	return nil, domain.ErrNotFound
}

func (m *fakeSessionRepo) Revoke(ctx context.Context, tokenID string) error {
	if m.missing {
		return domain.ErrNotFound
	}
	m.revoked = append(m.revoked, tokenID)
	return nil
}

func (m *fakeSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeResetRepo struct {
	storedHash string
	userID     string
	consumed   bool
}

func (m *fakeResetRepo) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	m.storedHash = tokenHash
	m.userID = userID
	return nil
}

func (m *fakeResetRepo) Consume(ctx context.Context, tokenHash string) (string, bool, error) {
	if m.storedHash != "" && tokenHash == m.storedHash && !m.consumed {
		m.consumed = true
		return m.userID, true, nil
	}
	return "", false, nil
}

type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hashed:" + salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash == "hashed:"+salt+":"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, tokenID string, expiry time.Duration) (string, error) {
	return "token:" + userID + ":" + tokenID, nil
}

func newTestAuthService(users *fakeUserRepo, sessions *fakeSessionRepo, resets *fakeResetRepo, activity *recordingActivity) domain.AuthService {
	return NewAuthService(users, sessions, resets, fakeHasher{}, fakeIssuer{}, time.Hour, nil, activity, discardLogger(), "http://localhost:8080")
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		fullName string
		wantErr  error
	}{
		{name: "success", username: "alice_1", email: "alice@example.com", password: "longenough", fullName: "Alice"},
		{name: "bad username", username: "Not Valid!", email: "alice@example.com", password: "longenough", fullName: "Alice", wantErr: domain.ErrInvalidInput},
		{name: "bad email", username: "alice_1", email: "nope", password: "longenough", fullName: "Alice", wantErr: domain.ErrInvalidInput},
		{name: "short password", username: "alice_1", email: "alice@example.com", password: "short", fullName: "Alice", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUserRepo{}
			activity := &recordingActivity{}
			svc := newTestAuthService(users, &fakeSessionRepo{}, &fakeResetRepo{}, activity)

			user, err := svc.SignUp(ctx, tt.username, tt.email, tt.password, tt.fullName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Role != domain.RoleUser {
				t.Fatalf("new accounts must get the user role, got %q", user.Role)
			}
			if user.PasswordHash == tt.password {
				t.Fatal("password must not be stored in the clear")
			}
			if !activity.has(domain.ActionUserSignup) {
				t.Fatal("expected signup to be audited")
			}
		})
	}

	t.Run("duplicate email surfaces as-is", func(t *testing.T) {
		users := &fakeUserRepo{createErr: domain.ErrDuplicateEmail}
		svc := newTestAuthService(users, &fakeSessionRepo{}, &fakeResetRepo{}, &recordingActivity{})
		_, err := svc.SignUp(ctx, "alice_1", "taken@example.com", "longenough", "Alice")
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	alice := &domain.User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed:salt:secret123",
		Salt:         "salt",
		Role:         domain.RoleUser,
	}

	setup := func() (*fakeUserRepo, *fakeSessionRepo) {
		return &fakeUserRepo{
			byEmail:    map[string]*domain.User{"alice@example.com": alice},
			byUsername: map[string]*domain.User{"alice": alice},
		}, &fakeSessionRepo{}
	}

	t.Run("by email", func(t *testing.T) {
		users, sessions := setup()
		svc := newTestAuthService(users, sessions, &fakeResetRepo{}, &recordingActivity{})

		token, user, err := svc.Login(ctx, "Alice@Example.com", "secret123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "u1" || token == "" {
			t.Fatalf("unexpected result: token=%q user=%v", token, user)
		}
		if len(sessions.created) != 1 {
			t.Fatalf("expected one session row, got %d", len(sessions.created))
		}
		if !strings.Contains(token, sessions.created[0].TokenID) {
			t.Fatal("token must carry the session token ID")
		}
	})

	t.Run("by username", func(t *testing.T) {
		users, sessions := setup()
		svc := newTestAuthService(users, sessions, &fakeResetRepo{}, &recordingActivity{})

		_, user, err := svc.Login(ctx, "alice", "secret123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "u1" {
			t.Fatalf("got user %v", user)
		}
	})

	t.Run("wrong password and unknown user fail the same way", func(t *testing.T) {
		users, sessions := setup()
		svc := newTestAuthService(users, sessions, &fakeResetRepo{}, &recordingActivity{})

		_, _, errWrongPass := svc.Login(ctx, "alice", "wrong")
		_, _, errUnknown := svc.Login(ctx, "nobody", "secret123")
		if errWrongPass == nil || errUnknown == nil {
			t.Fatal("expected both logins to fail")
		}
		if errWrongPass.Error() != errUnknown.Error() {
			t.Fatalf("error messages differ: %q vs %q", errWrongPass, errUnknown)
		}
		if len(sessions.created) != 0 {
			t.Fatal("failed login must not create a session")
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the session", func(t *testing.T) {
		sessions := &fakeSessionRepo{}
		svc := newTestAuthService(&fakeUserRepo{}, sessions, &fakeResetRepo{}, &recordingActivity{})
		if err := svc.Logout(ctx, "jti-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
			t.Fatalf("expected jti-1 revoked, got %v", sessions.revoked)
		}
	})

	t.Run("idempotent for unknown session", func(t *testing.T) {
		sessions := &fakeSessionRepo{missing: true}
		svc := newTestAuthService(&fakeUserRepo{}, sessions, &fakeResetRepo{}, &recordingActivity{})
		if err := svc.Logout(ctx, "gone"); err != nil {
			t.Fatalf("expected nil for already-revoked session, got %v", err)
		}
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	alice := &domain.User{ID: "u1", Email: "alice@example.com", Name: "Alice"}

	t.Run("unknown email is silent", func(t *testing.T) {
		resets := &fakeResetRepo{}
		svc := newTestAuthService(&fakeUserRepo{byEmail: map[string]*domain.User{}}, &fakeSessionRepo{}, resets, &recordingActivity{})
		if err := svc.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
			t.Fatalf("expected nil for unknown email, got %v", err)
		}
		if resets.storedHash != "" {
			t.Fatal("no token should be stored for unknown email")
		}
	})

	t.Run("token is stored hashed", func(t *testing.T) {
		resets := &fakeResetRepo{}
		users := &fakeUserRepo{byEmail: map[string]*domain.User{"alice@example.com": alice}}
		svc := newTestAuthService(users, &fakeSessionRepo{}, resets, &recordingActivity{})

		if err := svc.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resets.storedHash == "" || resets.userID != "u1" {
			t.Fatalf("expected stored hash for u1, got hash=%q user=%q", resets.storedHash, resets.userID)
		}
	})

	t.Run("consume updates the password once", func(t *testing.T) {
		// Seed a token hash as RequestPasswordReset would.
		token := "plainresettoken"
		resets := &fakeResetRepo{storedHash: hashResetToken(token), userID: "u1"}
		users := &fakeUserRepo{byEmail: map[string]*domain.User{"alice@example.com": alice}}
		svc := newTestAuthService(users, &fakeSessionRepo{}, resets, &recordingActivity{})

		if err := svc.ResetPassword(ctx, token, "newpassword"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if users.passwordUpdatedFor != "u1" {
			t.Fatalf("expected password update for u1, got %q", users.passwordUpdatedFor)
		}

		// Second use of the same token fails.
		err := svc.ResetPassword(ctx, token, "anotherpassword")
		if !errors.Is(err, domain.ErrInvalidResetToken) {
			t.Fatalf("expected ErrInvalidResetToken, got %v", err)
		}
	})

	t.Run("short new password rejected", func(t *testing.T) {
		svc := newTestAuthService(&fakeUserRepo{}, &fakeSessionRepo{}, &fakeResetRepo{}, &recordingActivity{})
		err := svc.ResetPassword(ctx, "whatever", "short")
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
