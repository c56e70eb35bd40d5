package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	h "eventhubconnect/internal/delivery/http/helpers"
	"eventhubconnect/internal/delivery/http/middleware"
	"eventhubconnect/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest is the request body for POST /auth/signup.
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate implements helpers.Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Username) == "" {
		errs = append(errs, "username is required")
	}
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login.
// Identifier is a username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate implements helpers.Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Identifier) == "" {
		errs = append(errs, "identifier is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// PasswordResetRequest is the request body for POST /auth/password-reset/request.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// Validate implements helpers.Validator.
func (p PasswordResetRequest) Validate() []string {
	if !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(p.Email))) {
		return []string{"invalid email format"}
	}
	return nil
}

// PasswordResetConfirm is the request body for POST /auth/password-reset/confirm.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Validate implements helpers.Validator.
func (p PasswordResetConfirm) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Token) == "" {
		errs = append(errs, "token is required")
	}
	if len(p.NewPassword) < 8 {
		errs = append(errs, "new_password must be at least 8 characters")
	}
	return errs
}

type AuthController struct {
	Logger     *slog.Logger
	Service    domain.AuthService
	SessionTTL time.Duration
	Secure     bool
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, sessionTTL time.Duration, secure bool) *AuthController {
	return &AuthController{
		Logger:     logger,
		Service:    svc,
		SessionTTL: sessionTTL,
		Secure:     secure,
	}
}

func (c *AuthController) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create a new account with username, email, password, and display name. New accounts get the "user" role.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email or username taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), req.Username, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, err.Error())
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with username-or-email and password. Sets the session cookie and returns the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains the authenticated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		if strings.Contains(err.Error(), "invalid credentials") {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	c.setSessionCookie(w, token, c.SessionTTL)
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// Logout godoc
// @Summary Log out
// @Description Revokes the current session server-side and clears the session cookie. Idempotent.
// @Tags auth
// @Produce json
// @Security SessionCookie
// @Success 204 "session revoked"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.TokenIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Logout(r.Context(), tokenID); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	c.setSessionCookie(w, "", -time.Second)
	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset godoc
// @Summary Request a password reset email
// @Description Sends a single-use reset link if the email is registered. Always responds 204 to avoid account enumeration.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body PasswordResetRequest true "Account email"
// @Success 204 "reset email sent if the account exists"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/password-reset/request [post]
func (c *AuthController) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetPassword godoc
// @Summary Reset the password with a token
// @Description Consumes the single-use reset token and sets the new password.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body PasswordResetConfirm true "Token and new password"
// @Success 204 "password updated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid or expired token)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/password-reset/confirm [post]
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirm
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) || errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
