package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", NewValidationError("email", "email must be a valid email"), http.StatusBadRequest},
		{"not found", NewNotFoundError("user", "User not found"), http.StatusNotFound},
		{"conflict", NewConflictError("user", "Email in use"), http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("Not authorized"), http.StatusUnauthorized},
		{"internal", NewInternalError("failed to hash password", errors.New("boom")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("signin: %w", NewUnauthorizedError("Email not verify")), http.StatusUnauthorized},
		{"plain", errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusOf(tt.err))
		})
	}
}

func TestNotFoundError_DefaultMessage(t *testing.T) {
	err := NewNotFoundError("contact", "")
	assert.Equal(t, "contact not found", err.Error())
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", err)))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(fmt.Errorf("insert: %w", NewConflictError("user", "Email in use"))))
	assert.False(t, IsConflict(NewNotFoundError("user", "")))
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError("failed to move avatar", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to move avatar: disk full", err.Error())
}
