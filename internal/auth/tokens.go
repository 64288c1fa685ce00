// Package auth issues and verifies stateless session tokens. A token binds
// a user id to an expiry and is signed with a process-wide secret; nothing
// is stored server-side, so verification never touches the database.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a token that is malformed, expired, or signed
// with the wrong secret. Callers must treat all three cases identically.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the standard JWT claims plus the authenticated user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a TokenManager. The secret is set once at startup
// and read-only afterwards.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl}
}

// Issue mints a signed token for the given user id, expiring after the
// manager's configured TTL.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded user id. A
// token is never partially trusted: any failure yields ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
