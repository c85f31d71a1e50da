package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/lead-intel/internal/leadstore"
)

// ErrInvalidAccessKey indicates a failed admin login.
type ErrInvalidAccessKey struct{}

func (e *ErrInvalidAccessKey) Error() string {
	return "invalid access key"
}

// ErrLeadNotFound indicates no lead has the requested id.
type ErrLeadNotFound struct {
	ID string
}

func (e *ErrLeadNotFound) Error() string {
	return fmt.Sprintf("lead not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		accessErr     *ErrInvalidAccessKey
		notFoundErr   *ErrLeadNotFound
		validationErr *ErrValidation
		storeErr      *leadstore.StoreError
	)
	switch {
	case errors.As(err, &accessErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &storeErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
