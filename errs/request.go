package errs

import (
	"errors"
	"net/http"
)

// Authentication & Authorization Errors. The token errors also match
// ErrUnauthorized.
var (
	ErrMissingToken       error = tokenError("missing access token")
	ErrInvalidToken       error = tokenError("invalid access token")
	ErrExpiredToken       error = tokenError("expired access token")
	ErrInvalidCredentials       = errors.New("invalid credentials")
)

type tokenError string

func (e tokenError) Error() string { return string(e) }

func (e tokenError) Is(target error) bool { return target == ErrUnauthorized }

// Authentication & Authorization Error Constructors
func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrExpiredToken,
		Details:    "Access token has expired",
		Field:      "authorization",
	}
}

// NewInvalidCredentialsError keeps the 400 the login form has always received.
func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidCredentials,
		Details:    "Invalid credentials",
	}
}

// NewNotOwnerError is returned when an authenticated caller touches a record
// owned by someone else.
func NewNotOwnerError(message string) *ApiErr {
	return NewForbiddenError(message)
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}
