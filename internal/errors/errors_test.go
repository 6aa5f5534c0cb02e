package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeValidation, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := AlreadyExists("User already exists")

	assert.True(t, Is(err, ErrAlreadyExists))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("register: %w", err)
	assert.True(t, Is(wrapped, ErrAlreadyExists))
}

func TestError_WithCauseKeepsCode(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := ErrRateLimited.WithCause(cause)

	assert.Equal(t, "too many requests: disk on fire", err.Error())
	assert.Equal(t, cause, Unwrap(err))
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus())
	assert.True(t, Is(err, ErrRateLimited))
}

func TestError_WithDetails(t *testing.T) {
	details := map[string]string{"name": "Folder name must have at least 2 characters"}
	err := ErrValidation.WithDetails(details)

	assert.Equal(t, details, err.Details)
	assert.Nil(t, ErrValidation.Details, "sentinel must not be mutated")
}
