package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ErrNoBillableCompanions is returned when an access event has no companions to charge.
var ErrNoBillableCompanions = errors.New("no companions to bill")

type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidStateError reports a lifecycle transition attempted from the wrong state.
type InvalidStateError struct {
	Entity   string
	ID       string
	Current  string
	Expected string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s, expected %s", e.Entity, e.ID, e.Current, e.Expected)
}

type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
