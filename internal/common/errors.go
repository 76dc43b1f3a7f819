package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict") // e.g., a judging call is already running
	ErrValidation         = errors.New("validation failed")
	ErrInternalServer     = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("judging backend unavailable")
)

// statusByError is checked in order; the first match wins.
var statusByError = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrBadRequest, http.StatusBadRequest},
	{ErrValidation, http.StatusBadRequest},
	{ErrConflict, http.StatusConflict},
	// the backend, not this process, is the one unavailable
	{ErrServiceUnavailable, http.StatusBadGateway},
}

// HTTPStatusFromError maps domain errors to HTTP status codes for the local
// API.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// MessageOr returns the error text, or fallback when err carries nothing useful.
func MessageOr(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
