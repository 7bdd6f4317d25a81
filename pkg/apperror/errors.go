package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. LED_* codes are the ledger's error kinds; callers match on
// the code, never on the message.
const (
	CodeUnauthorized        = "LED_001"
	CodePaused              = "LED_002"
	CodeBatchNotFound       = "LED_003"
	CodeBatchRetired        = "LED_004"
	CodeInsufficientBalance = "LED_005"
	CodeInvalidAmount       = "LED_006"
	CodeLastAdminLockout    = "LED_007"
	CodeInvalidIdentity     = "LED_008"
	CodeNotPaused           = "LED_009"
	CodeInvalidRole         = "LED_010"

	CodeInvalidToken      = "AUTH_001"
	CodeRateLimitExceeded = "RATE_001"
	CodeValidation        = "REQ_001"
	CodeInternal          = "SYS_001"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Code returns the AppError code carried by err, or "" if err is not an AppError.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given AppError code.
func HasCode(err error, code string) bool {
	return err != nil && Code(err) == code
}

// ---- Ledger (LED) ----

func ErrUnauthorized(role string) *AppError {
	return New(CodeUnauthorized, fmt.Sprintf("Caller is missing role %q", role), http.StatusForbidden)
}

func ErrNotHolder() *AppError {
	return New(CodeUnauthorized, "Caller may not move credits held by another identity", http.StatusForbidden)
}

func ErrPaused() *AppError {
	return New(CodePaused, "Ledger is paused", http.StatusLocked)
}

func ErrNotPaused() *AppError {
	return New(CodeNotPaused, "Ledger is not paused", http.StatusConflict)
}

func ErrBatchNotFound(batchID uint64) *AppError {
	return New(CodeBatchNotFound, fmt.Sprintf("Batch does not exist: %d", batchID), http.StatusNotFound)
}

func ErrBatchRetired(batchID uint64) *AppError {
	return New(CodeBatchRetired, fmt.Sprintf("Batch %d is retired", batchID), http.StatusConflict)
}

func ErrInsufficientBalance(batchID uint64) *AppError {
	return New(CodeInsufficientBalance, fmt.Sprintf("Insufficient balance in batch %d", batchID), http.StatusUnprocessableEntity)
}

func ErrInvalidAmount(field string) *AppError {
	return New(CodeInvalidAmount, fmt.Sprintf("Invalid %s: must be a positive whole number", field), http.StatusBadRequest)
}

func ErrLastAdminLockout() *AppError {
	return New(CodeLastAdminLockout, "Cannot revoke the last admin", http.StatusConflict)
}

func ErrInvalidIdentity(identity string) *AppError {
	return New(CodeInvalidIdentity, fmt.Sprintf("Invalid identity %q", identity), http.StatusBadRequest)
}

func ErrInvalidRole(role string) *AppError {
	return New(CodeInvalidRole, fmt.Sprintf("Unknown role %q", role), http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error. The wrapped
// error is logged but never rendered to clients.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}
