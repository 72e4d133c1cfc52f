package auth

import (
	"fmt"

	"github.com/rhizano/era-beacon-api/internal/shared/errors"
)

// Auth module errors
var (
	ErrUsernameTaken   = errors.New(errors.ErrCodeConflict, "Username already registered")
	ErrAccountInactive = errors.New(errors.ErrCodeUnauthorized, "Account is inactive")
)

// WrapAuthError wraps an error with auth module context
func WrapAuthError(err error, operation string) *errors.AppError {
	return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("Auth operation failed: %s", operation))
}
