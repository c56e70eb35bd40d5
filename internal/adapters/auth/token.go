package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventhubconnect/internal/domain"
)

type sessionClaims struct {
	jwt.RegisteredClaims
}

// JWTSessionCodec signs and verifies session tokens with HS256. The token's
// jti ties it to a sessions row so logout can revoke it server-side.
type JWTSessionCodec struct {
	secret []byte
}

// NewJWTSessionCodec returns a codec implementing both domain.TokenIssuer and
// domain.TokenVerifier.
func NewJWTSessionCodec(secret string) *JWTSessionCodec {
	return &JWTSessionCodec{secret: []byte(secret)}
}

var (
	_ domain.TokenIssuer   = (*JWTSessionCodec)(nil)
	_ domain.TokenVerifier = (*JWTSessionCodec)(nil)
)

func (c *JWTSessionCodec) Issue(userID, tokenID string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (c *JWTSessionCodec) Verify(token string) (string, string, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return "", "", fmt.Errorf("invalid token")
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", "", fmt.Errorf("token missing subject or id")
	}
	return claims.Subject, claims.ID, nil
}
