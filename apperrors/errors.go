package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so the transport layer can map them
// to responses without string matching.
type Kind string

const (
	// KindValidation indicates malformed or out-of-range input.
	KindValidation Kind = "VALIDATION"

	// KindCapacityExceeded indicates the room has no free slot.
	KindCapacityExceeded Kind = "CAPACITY_EXCEEDED"

	// KindNotFound indicates a referenced record does not exist.
	KindNotFound Kind = "NOT_FOUND"

	// KindInvalidState indicates the operation is not legal from the
	// entity's current state.
	KindInvalidState Kind = "INVALID_STATE"

	// KindConflict indicates a uniqueness violation.
	KindConflict Kind = "CONFLICT"
)

// AppError is the typed failure every engine operation returns.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error.
func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewCapacityExceededError creates a capacity error.
func NewCapacityExceededError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidStateError creates an invalid state error.
func NewInvalidStateError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidRefundError reports a refund exceeding the remaining deposit.
// It is an invalid-state failure with a fixed prefix so callers can
// distinguish it from other transition errors.
func NewInvalidRefundError(amount, remaining float64) *AppError {
	return &AppError{
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("invalid refund: amount %.2f exceeds remaining deposit %.2f", amount, remaining),
	}
}

// NewConflictError creates a conflict error.
func NewConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an internal failure while keeping the kind.
func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" when err is not an AppError.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
