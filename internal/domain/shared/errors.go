package shared

import "errors"

// Error codes shared by every bounded context.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeSessionNotOpen  = "SESSION_NOT_OPEN"
	CodeAlreadyClosed   = "ALREADY_CLOSED"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidAmount   = "INVALID_AMOUNT"
	CodeInvalidState    = "INVALID_STATE"
	CodeIdempotencyUsed = "IDEMPOTENCY_KEY_REUSED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return e.Code == de.Code
}

// WithCause returns a copy of the error carrying err as its cause
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Err: err}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError(CodeNotFound, "Resource not found")
	ErrConflict       = NewDomainError(CodeConflict, "Resource is in a conflicting state")
	ErrSessionNotOpen = NewDomainError(CodeSessionNotOpen, "Cash session is not open")
	ErrAlreadyClosed  = NewDomainError(CodeAlreadyClosed, "Cash session is already closed")
	ErrValidation     = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidState   = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// ErrorCode extracts the domain error code from err, or "" when err is not a DomainError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
