package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventhubconnect/internal/domain"
)

const (
	minPasswordLen      = 8
	resetTokenBytes     = 32
	resetTokenExpiryMin = 30
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegexp = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)
)

type authService struct {
	userRepo     domain.UserRepository
	sessionRepo  domain.SessionRepository
	resetRepo    domain.PasswordResetTokenRepository
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	sessionTTL   time.Duration
	emailService domain.EmailService
	activity     domain.ActivityLogger
	logger       *slog.Logger
	baseURL      string
}

// NewAuthService creates an AuthService. emailService may be nil, in which
// case welcome and reset emails are skipped.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	resetRepo domain.PasswordResetTokenRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	sessionTTL time.Duration,
	emailService domain.EmailService,
	activity domain.ActivityLogger,
	logger *slog.Logger,
	baseURL string,
) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		resetRepo:    resetRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		sessionTTL:   sessionTTL,
		emailService: emailService,
		activity:     activity,
		logger:       logger,
		baseURL:      baseURL,
	}
}

func (s *authService) SignUp(ctx context.Context, username, email, password, name string) (*domain.User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	email = strings.TrimSpace(strings.ToLower(email))
	if !usernameRegexp.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-32 lowercase letters, digits, or underscores", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(username, email, hash, salt, strings.TrimSpace(name), domain.RoleUser, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeEmailData{Email: user.Email, Name: user.Name, Username: user.Username}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
		}
	}

	s.activity.LogActivity(ctx, user.ID, domain.ActionUserSignup, "account created")
	return user, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))

	var user *domain.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		// Same failure for unknown user and wrong password.
		return "", nil, fmt.Errorf("invalid credentials")
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	session := &domain.Session{
		UserID:    user.ID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	token, err := s.tokenIssuer.Issue(user.ID, session.TokenID, s.sessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.activity.LogActivity(ctx, user.ID, domain.ActionUserLogin, "logged in")
	return token, user, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string) error {
	if err := s.sessionRepo.Revoke(ctx, tokenID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Session already gone; logout is idempotent.
			return nil
		}
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Do not reveal whether the address is registered.
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expiresAt := time.Now().Add(resetTokenExpiryMin * time.Minute)
	if err := s.resetRepo.Create(ctx, user.ID, hashResetToken(token), expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if s.emailService != nil {
		data := &domain.PasswordResetEmailData{
			Email:            user.Email,
			Name:             user.Name,
			ResetURL:         fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token),
			ExpiresInMinutes: resetTokenExpiryMin,
		}
		if err := s.emailService.SendPasswordReset(ctx, data); err != nil {
			return fmt.Errorf("send reset email: %w", err)
		}
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	userID, consumed, err := s.resetRepo.Consume(ctx, hashResetToken(strings.TrimSpace(token)))
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !consumed {
		return domain.ErrInvalidResetToken
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash, salt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
