package logger

import (
	"errors"

	"clubstay-backend/internal/domain"
)

func isExpected(err error) bool {
	if err == nil {
		return false
	}
	var stateErr *domain.InvalidStateError
	var validationErr *domain.ValidationError
	var conflictErr *domain.ConflictError
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrNoBillableCompanions) ||
		errors.As(err, &stateErr) ||
		errors.As(err, &validationErr) ||
		errors.As(err, &conflictErr)
}
