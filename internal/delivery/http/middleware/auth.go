package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventhubconnect/internal/delivery/http/helpers"
	"eventhubconnect/internal/domain"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "ehc_session"

type contextKey string

const (
	userIDKey  contextKey = "userID"
	roleKey    contextKey = "role"
	tokenIDKey contextKey = "tokenID"
)

// SetIdentity returns a context with the authenticated identity set.
func SetIdentity(ctx context.Context, userID, role, tokenID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return context.WithValue(ctx, tokenIDKey, tokenID)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RoleFromContext returns the authenticated user's role from the context, if present.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// TokenIDFromContext returns the session token ID from the context, if present.
func TokenIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tokenIDKey).(string)
	return id, ok
}

// tokenFromRequest extracts the session token from the session cookie, or
// from an Authorization: Bearer header for non-browser clients.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// RequireAuth returns a wrapper that validates the session token, checks the
// server-side session row, and sets the user identity in the request context.
// If the token is missing, invalid, expired, or revoked, it responds with 401
// and does not call next.
func RequireAuth(verifier domain.TokenVerifier, sessions domain.SessionRepository, users domain.UserRepository, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing session")
				return
			}
			userID, tokenID, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired session")
				return
			}
			session, err := sessions.GetByTokenID(r.Context(), tokenID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired session")
					return
				}
				logger.ErrorContext(r.Context(), "session lookup failed", "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
				return
			}
			if session.RevokedAt != nil || time.Now().After(session.ExpiresAt) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired session")
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired session")
					return
				}
				logger.ErrorContext(r.Context(), "user lookup failed", "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
				return
			}
			r = r.WithContext(SetIdentity(r.Context(), user.ID, user.Role, tokenID))
			next(w, r)
		}
	}
}

// OptionalAuth resolves the session like RequireAuth but never rejects:
// anonymous requests and requests with an invalid, revoked, or expired
// session reach next without an identity. Public routes whose output varies
// by role run behind this.
func OptionalAuth(verifier domain.TokenVerifier, sessions domain.SessionRepository, users domain.UserRepository) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next(w, r)
				return
			}
			userID, tokenID, err := verifier.Verify(token)
			if err != nil {
				next(w, r)
				return
			}
			session, err := sessions.GetByTokenID(r.Context(), tokenID)
			if err != nil || session.RevokedAt != nil || time.Now().After(session.ExpiresAt) {
				next(w, r)
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				next(w, r)
				return
			}
			next(w, r.WithContext(SetIdentity(r.Context(), user.ID, user.Role, tokenID)))
		}
	}
}

// RequireRole returns a wrapper that responds 403 unless the authenticated
// user's role is one of the given roles. Must run inside RequireAuth.
func RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
				return
			}
			if _, ok := allowed[role]; !ok {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
				return
			}
			next(w, r)
		}
	}
}
