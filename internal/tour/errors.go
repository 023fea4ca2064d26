package tour

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes failures surfaced by stores and the synchronizer.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a tour or log lookup found nothing.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeStoreFailure indicates a store call failed.
	ErrCodeStoreFailure ErrorCode = "STORE_FAILURE"

	// ErrCodeValidation indicates input rejected at the edge.
	ErrCodeValidation ErrorCode = "VALIDATION"
)

// Error carries the operation and the ids involved so a failure can be
// diagnosed from the log line alone.
type Error struct {
	Code    ErrorCode
	Op      string
	TourID  int64
	LogID   int64
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	var ids []string
	if e.TourID != 0 {
		ids = append(ids, fmt.Sprintf("tour=%d", e.TourID))
	}
	if e.LogID != 0 {
		ids = append(ids, fmt.Sprintf("log=%d", e.LogID))
	}
	if len(ids) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(ids, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTourNotFound returns a NotFound error for a tour id.
func NewTourNotFound(op string, id int64) *Error {
	return &Error{Code: ErrCodeNotFound, Op: op, TourID: id, Message: "tour not found"}
}

// NewLogNotFound returns a NotFound error for a log id.
func NewLogNotFound(op string, id int64) *Error {
	return &Error{Code: ErrCodeNotFound, Op: op, LogID: id, Message: "log not found"}
}

// NewStoreFailure wraps err as a store failure.
func NewStoreFailure(op string, tourID, logID int64, err error) *Error {
	return &Error{Code: ErrCodeStoreFailure, Op: op, TourID: tourID, LogID: logID, Err: err}
}

// NewValidationError returns a validation failure.
func NewValidationError(op, message string) *Error {
	return &Error{Code: ErrCodeValidation, Op: op, Message: message}
}

// IsNotFound returns true if err is, or wraps, a NotFound error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsStoreFailure returns true if err is, or wraps, a store failure.
func IsStoreFailure(err error) bool {
	return hasCode(err, ErrCodeStoreFailure)
}

// IsValidation returns true if err is, or wraps, a validation failure.
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func hasCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}
