package presence

import (
	"fmt"

	"github.com/rhizano/era-beacon-api/internal/shared/errors"
)

// Presence module errors
var (
	ErrPresenceLogNotFound = errors.New(errors.ErrCodeNotFound, "Presence log not found")
	ErrUnknownBeacon       = errors.New(errors.ErrCodeNotFound, "Beacon is not registered")
)

// WrapPresenceError wraps an error with presence module context
func WrapPresenceError(err error, operation string) *errors.AppError {
	return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("Presence operation failed: %s", operation))
}

// ValidationError creates a validation error with details
func ValidationError(message string, details map[string]interface{}) *errors.AppError {
	return errors.WithDetails(errors.ErrCodeValidation, message, details)
}
