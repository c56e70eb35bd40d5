package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventhubconnect/internal/delivery/http/helpers"
	"eventhubconnect/internal/delivery/http/middleware"
	"eventhubconnect/internal/domain"
)

type mockAuthService struct {
	user      *domain.User
	token     string
	err       error
	loggedOut []string
}

func (m *mockAuthService) SignUp(ctx context.Context, username, email, password, name string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAuthService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	if m.err != nil {
		return "", nil, m.err
	}
	return m.token, m.user, nil
}

func (m *mockAuthService) Logout(ctx context.Context, tokenID string) error {
	if m.err != nil {
		return m.err
	}
	m.loggedOut = append(m.loggedOut, tokenID)
	return nil
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.err
}

func (m *mockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.err
}

func newTestAuthController(svc domain.AuthService) *AuthController {
	return NewAuthController(testLogger(), svc, time.Hour, false)
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthController_SignUp(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &mockAuthService{user: &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}}
		ctrl := newTestAuthController(svc)

		body := `{"username":"alice","email":"alice@example.com","password":"longenough","name":"Alice"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.SignUp(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (body %s)", w.Code, w.Body.String())
		}
		resp := decodeEnvelope(t, w)
		if resp.Error != nil {
			t.Fatalf("unexpected error payload: %v", resp.Error)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		ctrl := newTestAuthController(&mockAuthService{err: domain.ErrDuplicateEmail})

		body := `{"username":"alice","email":"taken@example.com","password":"longenough","name":"Alice"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.SignUp(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		resp := decodeEnvelope(t, w)
		if resp.Error == nil || resp.Error.Code != helpers.ErrCodeConflict {
			t.Fatalf("expected conflict code, got %v", resp.Error)
		}
	})

	t.Run("invalid body rejected before the service", func(t *testing.T) {
		svc := &mockAuthService{}
		ctrl := newTestAuthController(svc)

		body := `{"username":"","email":"nope","password":"short","name":""}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.SignUp(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		ctrl := newTestAuthController(&mockAuthService{})

		body := `{"username":"alice","email":"alice@example.com","password":"longenough","name":"Alice","role":"admin"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.SignUp(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", w.Code)
		}
	})
}

func TestAuthController_Login(t *testing.T) {
	t.Run("sets the session cookie", func(t *testing.T) {
		svc := &mockAuthService{
			token: "signed-session-token",
			user:  &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser},
		}
		ctrl := newTestAuthController(svc)

		body := `{"identifier":"alice","password":"secret123"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.Login(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
		}
		cookie := sessionCookie(w)
		if cookie == nil {
			t.Fatal("expected a session cookie")
		}
		if cookie.Value != "signed-session-token" {
			t.Fatalf("cookie value = %q", cookie.Value)
		}
		if !cookie.HttpOnly {
			t.Fatal("session cookie must be HttpOnly")
		}
		if cookie.MaxAge <= 0 {
			t.Fatalf("cookie MaxAge = %d, want positive", cookie.MaxAge)
		}
	})

	t.Run("bad credentials are unauthorized without a cookie", func(t *testing.T) {
		ctrl := newTestAuthController(&mockAuthService{err: errors.New("invalid credentials")})

		body := `{"identifier":"alice","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.Login(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if sessionCookie(w) != nil {
			t.Fatal("failed login must not set a cookie")
		}
	})
}

func TestAuthController_Logout(t *testing.T) {
	t.Run("revokes the session and clears the cookie", func(t *testing.T) {
		svc := &mockAuthService{}
		ctrl := newTestAuthController(svc)

		req := authedRequest(http.MethodPost, "/auth/logout", "u1", domain.RoleUser)
		w := httptest.NewRecorder()

		ctrl.Logout(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "jti-1" {
			t.Fatalf("expected session jti-1 revoked, got %v", svc.loggedOut)
		}
		cookie := sessionCookie(w)
		if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
			t.Fatalf("expected an expired empty cookie, got %v", cookie)
		}
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		ctrl := newTestAuthController(&mockAuthService{})
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		w := httptest.NewRecorder()

		ctrl.Logout(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestAuthController_PasswordReset(t *testing.T) {
	t.Run("request always responds no content", func(t *testing.T) {
		ctrl := newTestAuthController(&mockAuthService{})
		body := `{"email":"nobody@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/password-reset/request", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.RequestPasswordReset(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})

	t.Run("invalid token is a bad request", func(t *testing.T) {
		ctrl := newTestAuthController(&mockAuthService{err: domain.ErrInvalidResetToken})
		body := `{"token":"stale","new_password":"longenough"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/password-reset/confirm", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.ResetPassword(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
