package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LED_005", "Insufficient balance", http.StatusUnprocessableEntity),
			expected: "[LED_005] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("LED_001", "test", http.StatusForbidden).Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Unauthorized", ErrUnauthorized("certifier"), "LED_001", 403},
		{"NotHolder", ErrNotHolder(), "LED_001", 403},
		{"Paused", ErrPaused(), "LED_002", 423},
		{"BatchNotFound", ErrBatchNotFound(7), "LED_003", 404},
		{"BatchRetired", ErrBatchRetired(7), "LED_004", 409},
		{"InsufficientBalance", ErrInsufficientBalance(7), "LED_005", 422},
		{"InvalidAmount", ErrInvalidAmount("amount"), "LED_006", 400},
		{"LastAdminLockout", ErrLastAdminLockout(), "LED_007", 409},
		{"InvalidIdentity", ErrInvalidIdentity(""), "LED_008", 400},
		{"NotPaused", ErrNotPaused(), "LED_009", 409},
		{"InvalidRole", ErrInvalidRole("root"), "LED_010", 400},
		{"InvalidToken", ErrInvalidToken(), "AUTH_001", 401},
		{"RateLimitExceeded", ErrRateLimitExceeded(), "RATE_001", 429},
		{"Validation", Validation("bad body"), "REQ_001", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestLedgerErrorMessages(t *testing.T) {
	assert.Contains(t, ErrBatchNotFound(999).Message, "Batch does not exist")
	assert.Contains(t, ErrInsufficientBalance(1).Message, "Insufficient balance")
}

func TestInternalError(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	err := InternalError(inner)
	assert.Equal(t, "SYS_001", err.Code)
	assert.Equal(t, 500, err.HTTPStatus)
	assert.True(t, errors.Is(err, inner))
	assert.NotContains(t, err.Message, "pg:")
}

func TestCode(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", ErrPaused())
	assert.Equal(t, CodePaused, Code(wrapped))
	assert.True(t, HasCode(wrapped, CodePaused))
	assert.False(t, HasCode(wrapped, CodeNotPaused))
	assert.Equal(t, "", Code(fmt.Errorf("plain")))
	assert.False(t, HasCode(nil, CodePaused))
}
