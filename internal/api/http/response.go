package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/service"
)

type errorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CurrentStatus string `json:"current_status,omitempty"`
}

type listResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Count: len(items)})
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeError translates service errors into HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var (
		stateErr      *domain.InvalidStateError
		conflictErr   *domain.ConflictError
		domainInvalid *domain.ValidationError
		fieldErrs     validator.ValidationErrors
		badRequest    *badRequestError
	)
	switch {
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:         "invalid_state",
			Message:       stateErr.Error(),
			CurrentStatus: stateErr.Current,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &conflictErr):
		writeErrorCode(w, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &domainInvalid), errors.As(err, &badRequest):
		writeErrorCode(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.As(err, &fieldErrs):
		writeErrorCode(w, http.StatusBadRequest, "validation_failed", describeFieldErrors(fieldErrs))
	case errors.Is(err, domain.ErrNoBillableCompanions):
		writeErrorCode(w, http.StatusBadRequest, "no_billable_companions", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeErrorCode(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	default:
		logger.Error("Unhandled request error", "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
