package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/studypartner/backend/internal/apperr"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperr.ErrUnauthorized):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrInsufficientFunds):
		status, message = http.StatusPaymentRequired, err.Error()
	case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrDuplicate):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperr.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrExternalService):
		status, message = http.StatusBadGateway, err.Error()
	}

	writeJSON(w, status, errorResponse{Error: message})
}

// readJSON decodes and validates the request body into v.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}
