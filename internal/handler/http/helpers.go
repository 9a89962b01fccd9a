// Package http carries the HTTP handlers and the response envelope.
// Successes wrap their payload in {"data": ...}; failures serialize the
// application error as {"message": ..., "code": ...}.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/mealhub/delivery-backend/internal/apperr"
	"github.com/mealhub/delivery-backend/internal/auth"
)

var validate = validator.New()

func respondData(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": payload}); err != nil {
		log.Error().Err(err).Msg("handler: failed to encode response")
	}
}

func respondError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		log.Error().Err(e.Err).Msg("handler: internal failure")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.HTTPStatus(e.Kind))
	if encErr := json.NewEncoder(w).Encode(map[string]string{"message": e.Message, "code": e.Code}); encErr != nil {
		log.Error().Err(encErr).Msg("handler: failed to encode error response")
	}
}

// decode unmarshals and validates a JSON request body.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperr.Validation("validation failed: " + err.Error())
	}
	return nil
}

// identity fetches the authenticated caller; the auth middleware
// guarantees presence on protected routes.
func identity(r *http.Request) (*auth.Identity, error) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		return nil, apperr.Unauthenticated(apperr.CodeUnauthenticated, "missing bearer token")
	}
	return id, nil
}
