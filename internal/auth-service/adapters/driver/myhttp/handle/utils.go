package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"fixmate/internal/auth-service/core/myerrors"
)

const (
	WaitTime = 10
)

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes an error response as JSON with the specified HTTP status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// JsonError is the variant exposed to middleware.
func JsonError(w http.ResponseWriter, code int, err error) {
	jsonError(w, code, err)
}

// statusFor maps the core error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrValidation),
		errors.Is(err, myerrors.ErrEmailRegistered),
		errors.Is(err, myerrors.ErrOtpExpired),
		errors.Is(err, myerrors.ErrOtpMismatch):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, myerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, myerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrCollaborator):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func identity(r *http.Request) string {
	return r.Header.Get("X-IdentityId")
}

func role(r *http.Request) string {
	return r.Header.Get("X-Role")
}
