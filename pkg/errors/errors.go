package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Structural request errors. These are returned before any allocation work
// begins and never carry partial state mutation. Scheduling soft failures
// (deferred or unplaced matchUps) are never errors; they ride in the
// scheduler result buckets instead.
var (
	ErrMissingTournamentRecord  = New("MISSING_TOURNAMENT_RECORD", http.StatusNotFound, "tournament record not found")
	ErrMissingTournamentRecords = New("MISSING_TOURNAMENT_RECORDS", http.StatusNotFound, "no tournament records provided")
	ErrMissingValue             = New("MISSING_VALUE", http.StatusBadRequest, "required value missing")
	ErrInvalidDate              = New("INVALID_DATE", http.StatusBadRequest, "invalid date")
	ErrInvalidValues            = New("INVALID_VALUES", http.StatusBadRequest, "invalid values")
	ErrExistingRound            = New("EXISTING_ROUND", http.StatusConflict, "round already present in scheduling profile")
	ErrCourtNotFound            = New("COURT_NOT_FOUND", http.StatusNotFound, "court not found")
	ErrInvalidObject            = New("INVALID_OBJECT", http.StatusBadRequest, "invalid object")
	ErrInvalidMatchUpStatus     = New("INVALID_MATCHUP_STATUS", http.StatusBadRequest, "invalid matchUp status")
	ErrCannotChangeWinningSide  = New("CANNOT_CHANGE_WINNING_SIDE", http.StatusConflict, "cannot change winning side")
	ErrNotFound                 = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized             = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation               = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal                 = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrInvalidCredentials       = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid credentials")
	ErrCacheMiss                = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
