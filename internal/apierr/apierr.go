package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeForbidden  = "forbidden"
	CodeDuplicate  = "duplicate"
	CodeDatabase   = "database"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

func Duplicate(format string, args ...any) *Error {
	return New(http.StatusConflict, CodeDuplicate, fmt.Errorf(format, args...))
}

// Database keeps the storage-layer cause attached so the original message
// survives into logs and responses.
func Database(msg string, err error) *Error {
	return New(http.StatusInternalServerError, CodeDatabase, fmt.Errorf("%s: %w", msg, err))
}

// IsUniqueViolation reports whether err carries a postgres unique-constraint
// violation (SQLSTATE 23505), without matching on message text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// StatusOf maps any error to an HTTP status and machine code for responses.
func StatusOf(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, apiErr.Code
	}
	return http.StatusInternalServerError, CodeDatabase
}
