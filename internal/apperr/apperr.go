// Package apperr defines the error taxonomy shared by all handlers and the
// mapping from each error class to an HTTP status. Every failure surfaced by
// the service wraps exactly one of these sentinels.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotAuthenticated covers missing, malformed, expired tokens and
	// stale role claims.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotAuthorized covers authenticated subjects failing a role or
	// tenancy check on an existing resource.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotFound covers references to absent entities. Existence is always
	// checked before authorization, so NotFound wins over NotAuthorized.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers unique-constraint violations on creation and
	// restricted deletes.
	ErrConflict = errors.New("conflict")

	// ErrValidation covers malformed or missing required input.
	ErrValidation = errors.New("validation failed")

	// ErrTenancyRequired covers subjects lacking an organization where one
	// is mandatory. Distinct from a role failure.
	ErrTenancyRequired = errors.New("organization membership required")
)

// Wrap annotates a sentinel with a human-readable detail while keeping it
// errors.Is-matchable.
func Wrap(sentinel error, msg string) error {
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// Status maps an error to its HTTP status code. Unrecognized errors map to
// 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, ErrTenancyRequired):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
