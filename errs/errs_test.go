package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		check  func(error) bool
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, IsNotFound},
		{"duplicate key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), http.StatusConflict, IsConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, http.StatusBadRequest, IsBadRequest},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, func(err error) bool {
			return errors.Is(err, ErrDatabaseConnection)
		}},
		{"other", errors.New("syntax error"), http.StatusInternalServerError, func(err error) bool {
			return errors.Is(err, ErrDatabaseQuery)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "portfolio", tt.cause)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.True(t, tt.check(err))
		})
	}
}

func TestNewDatabaseErrorKeepsApiErr(t *testing.T) {
	forbidden := NewNotOwnerError("not yours")
	assert.Same(t, forbidden, NewDatabaseError("update", "project", forbidden))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Equal(t, http.StatusForbidden, StatusOf(NewPrivateResourceError("this portfolio is private")))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(NewMissingTokenError()))
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(fmt.Errorf("wrapped: %w", NewTooManyRequestsError("slow down"))))
}

func TestTokenErrorsAreUnauthorized(t *testing.T) {
	missing := NewMissingTokenError()
	invalid := NewInvalidTokenError(errors.New("bad signature"))
	expired := NewExpiredTokenError()

	for _, err := range []error{missing, invalid, expired, NewUnauthorizedError("no user in context")} {
		assert.True(t, IsUnauthorized(err), err.Error())
		assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	}

	assert.True(t, IsMissingTokenError(missing))
	assert.False(t, IsMissingTokenError(invalid))
	assert.True(t, IsInvalidTokenError(invalid))
	assert.False(t, IsInvalidTokenError(expired))
	assert.True(t, IsExpiredTokenError(expired))

	assert.False(t, IsUnauthorized(NewInvalidCredentialsError()))
	assert.False(t, IsUnauthorized(NewNotOwnerError("not yours")))
}

func TestMessage(t *testing.T) {
	err := NewInvalidFieldError("theme", "must be light or dark")
	assert.Equal(t, "Invalid field theme: must be light or dark", err.Message())
	assert.Equal(t, "theme", err.Field)
	assert.True(t, IsBadRequest(err))

	plain := NewApiErr(http.StatusTeapot, "short and stout")
	assert.Equal(t, "short and stout", plain.Message())
}
