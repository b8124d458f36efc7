package dto

import (
	"net/http"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// Error codes used by the HTTP layer in addition to the domain codes.
const (
	ErrCodeValidation      = shared.CodeValidation
	ErrCodeInvalidAmount   = shared.CodeInvalidAmount
	ErrCodeNotFound        = shared.CodeNotFound
	ErrCodeConflict        = shared.CodeConflict
	ErrCodeAlreadyClosed   = shared.CodeAlreadyClosed
	ErrCodeSessionNotOpen  = shared.CodeSessionNotOpen
	ErrCodeInvalidState    = shared.CodeInvalidState
	ErrCodeIdempotencyUsed = shared.CodeIdempotencyUsed

	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Codes missing from the table are served as 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidAmount:   http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeAlreadyClosed:   http.StatusConflict,
	ErrCodeSessionNotOpen:  http.StatusConflict,
	ErrCodeIdempotencyUsed: http.StatusConflict,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
