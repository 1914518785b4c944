package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotAuthenticated, http.StatusUnauthorized},
		{ErrNotAuthorized, http.StatusForbidden},
		{ErrTenancyRequired, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := Status(c.err); got != c.want {
			t.Fatalf("Status(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrap(ErrConflict, "contact email already in use")
	if !errors.Is(err, ErrConflict) {
		t.Fatal("wrapped error lost its sentinel")
	}
	if Status(err) != http.StatusConflict {
		t.Fatal("wrapped error lost its status mapping")
	}
}
