// Package token issues and verifies the signed identity assertions carried
// in Authorization headers. Claims are stateless; nothing is persisted and
// tokens cannot be revoked before expiry.
package token

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/mealhub/delivery-backend/internal/apperr"
)

// Claims is the decoded, verified payload of a bearer token.
type Claims struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	RestaurantID string `json:"restaurant_id,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService builds a token service around a process-wide signing secret.
// The secret is read once at startup and never mutated afterwards.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the subject. restaurantID is empty for customers
// and deliverers.
func (s *Service) Issue(subject, email, role, restaurantID string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := Claims{
		Email:        email,
		Role:         strings.ToLower(role),
		RestaurantID: restaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry. Any failure (bad signature,
// malformed token, expired) yields the same unauthenticated error; there
// is no soft-expiry grace period.
func (s *Service) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, apperr.Unauthenticated(apperr.CodeInvalidToken, "invalid token")
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, apperr.Unauthenticated(apperr.CodeInvalidToken, "invalid claims")
	}
	return claims, nil
}
