package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		var apiErr *ApiErr
		if errors.As(cause, &apiErr) {
			return apiErr
		}

		switch {
		case errors.Is(cause, gorm.ErrRecordNotFound):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        ErrNotFound,
				Details:    fmt.Sprintf("%s not found", entity),
				Cause:      cause,
			}
		case errors.Is(cause, gorm.ErrDuplicatedKey):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        ErrConflict,
				Details:    fmt.Sprintf("%s already exists", entity),
				Cause:      cause,
			}
		case errors.Is(cause, gorm.ErrForeignKeyViolated):
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        ErrBadRequest,
				Details:    "The referenced resource does not exist or cannot be linked",
				Cause:      cause,
			}
		case strings.Contains(cause.Error(), "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}
