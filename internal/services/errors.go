package services

import (
	"errors"
	"fmt"
)

var (
	ErrNoOwner        = errors.New("no owner identity")
	ErrMissingID      = errors.New("application id is required")
	ErrNegativeSalary = errors.New("salary must not be negative")
	ErrInvalidStatus  = errors.New("unknown application status")
)

// FetchError means listing an owner's applications failed. Nothing is
// retried; the user refreshes manually.
type FetchError struct {
	Owner string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch applications for %q: %v", e.Owner, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError means a create, update or delete did not reach the store.
// Nothing is retried automatically.
type WriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *WriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s application: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s application %s: %v", e.Op, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
