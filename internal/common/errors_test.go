package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("problem p1: %w", ErrNotFound), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("title is required: %w", ErrValidation), http.StatusBadRequest},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{fmt.Errorf("dial tcp: %w", ErrServiceUnavailable), http.StatusBadGateway},
		{&pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatusFromError(c.err), "error %v", c.err)
	}
}

func TestMessageOr(t *testing.T) {
	assert.Equal(t, "fallback", MessageOr(nil, "fallback"))
	assert.Equal(t, "fallback", MessageOr(errors.New(""), "fallback"))
	assert.Equal(t, "boom", MessageOr(errors.New("boom"), "fallback"))
}
