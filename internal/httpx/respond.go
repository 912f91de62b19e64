package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/ariefcatur/ricemart-orders/internal/auth"
	"github.com/rs/zerolog"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidInput("invalid json")
	}
	return nil
}

func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps classified errors to their status. Anything else is logged
// and reported as a generic 500.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindInternal {
		writeJSON(w, statusFor(ae.Kind), errorBody{Error: ae.Message})
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// writeAuthError is the auth middleware rejection.
func writeAuthError(w http.ResponseWriter, err error) {
	msg := auth.ErrUnauthorized.Error()
	if errors.Is(err, auth.ErrTokenExpired) || errors.Is(err, auth.ErrInvalidToken) {
		msg = err.Error()
	}
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: msg})
}

// Authenticator wraps routes that need a verified identity.
func Authenticator(v auth.Verifier) func(http.Handler) http.Handler {
	return auth.Middleware(v, writeAuthError)
}

func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func requireAdmin(id auth.Identity) error {
	if id.Email == "" {
		return apperr.Unauthenticated("authentication required")
	}
	if !id.Admin {
		return apperr.Forbidden("admin role required")
	}
	return nil
}
