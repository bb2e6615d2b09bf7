package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found,
// or is not visible to the caller's organization.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing or invalid credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates an illegal state transition, e.g. approving a voided transaction.
var ErrConflict = errors.New("conflict with current state")

// ErrInsufficientFunds indicates a trust disbursement that would drive a
// client ledger balance below zero.
var ErrInsufficientFunds = errors.New("insufficient trust funds")

// ErrUnreconciledVariance indicates an attempt to approve a reconciliation
// whose variance is nonzero and unexplained.
var ErrUnreconciledVariance = errors.New("unreconciled variance")

// ErrInternal indicates an unexpected internal failure that must not leak detail to clients.
var ErrInternal = errors.New("internal error")

// AppError carries a status code alongside a wrapped cause.
// Repositories use it to surface infrastructure failures without losing context.
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

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
