package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of another
// resource, e.g. an uncompleted reconciliation already open for the same account/period.
var ErrConflict = errors.New("resource conflict")

// ErrInvalidState indicates an illegal lifecycle transition, e.g. posting an entry that
// is not in draft, or editing a posted entry.
var ErrInvalidState = errors.New("invalid entry state for this operation")

// ErrUnbalanced indicates a journal entry whose total debits do not equal total credits.
var ErrUnbalanced = errors.New("journal entry debits do not equal credits")

// ErrEmptyEntry indicates an attempt to post a journal entry with no lines.
var ErrEmptyEntry = errors.New("journal entry has no lines")

// ErrInactiveAccount indicates a reference to an account that is deactivated.
var ErrInactiveAccount = errors.New("account is inactive")

// ErrDiscrepancy indicates a reconciliation whose cleared balance does not match the
// statement balance. Non-fatal: the caller may force-complete with notes instead.
var ErrDiscrepancy = errors.New("reconciliation difference is not zero")

// ErrInvalidQuery indicates malformed report filters, e.g. an end date before the start date.
var ErrInvalidQuery = errors.New("invalid query parameters")

// AppError wraps lower-level failures (usually storage faults) with an HTTP-ish code and a
// message safe to log. The wrapped error is preserved for errors.Is/As.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
