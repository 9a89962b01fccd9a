// Package auth is the authorization gate: it resolves the caller's
// identity from the bearer token and enforces role membership before a
// handler runs. Ownership checks against a specific order stay in the
// lifecycle engine.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mealhub/delivery-backend/internal/apperr"
	"github.com/mealhub/delivery-backend/internal/token"
)

const (
	RoleCustomer   = "customer"
	RoleDeliverer  = "deliverer"
	RoleRestaurant = "restaurant"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID       string
	Email        string
	Role         string
	RestaurantID string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok
}

// RestaurantScope returns the restaurant the caller acts for. Restaurant
// accounts without an explicit scope act for the restaurant matching
// their own id.
func (id *Identity) RestaurantScope() string {
	if id.RestaurantID != "" {
		return id.RestaurantID
	}
	return id.UserID
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

type Verifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Authenticate verifies the bearer token and stores the resulting
// identity in the request context. Absence or verification failure ends
// the request with 401.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				writeError(w, apperr.Unauthenticated(apperr.CodeUnauthenticated, "missing bearer token"))
				return
			}
			claims, err := v.Verify(raw)
			if err != nil {
				writeError(w, err)
				return
			}
			id := &Identity{
				UserID:       claims.Subject,
				Email:        claims.Email,
				Role:         strings.ToLower(claims.Role),
				RestaurantID: claims.RestaurantID,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole enforces that the authenticated caller holds one of the
// allowed roles. Insufficient privilege is 403, distinct from the 401 of a
// missing or invalid credential.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[strings.ToLower(role)] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				writeError(w, apperr.Unauthenticated(apperr.CodeUnauthenticated, "missing bearer token"))
				return
			}
			if !allowed[id.Role] {
				writeError(w, apperr.Forbidden("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		log.Error().Err(e.Err).Msg("auth middleware failure")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.HTTPStatus(e.Kind))
	_ = json.NewEncoder(w).Encode(map[string]string{"message": e.Message, "code": e.Code})
}
