package beacons

import (
	"fmt"

	"github.com/rhizano/era-beacon-api/internal/shared/errors"
)

// Beacon module errors
var (
	ErrBeaconNotFound      = errors.New(errors.ErrCodeNotFound, "Beacon not found")
	ErrBeaconAlreadyExists = errors.New(errors.ErrCodeConflict, "Beacon ID already registered")
)

// WrapBeaconError wraps an error with beacon module context
func WrapBeaconError(err error, operation string) *errors.AppError {
	return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("Beacon operation failed: %s", operation))
}

// ValidationError creates a validation error with details
func ValidationError(message string, details map[string]interface{}) *errors.AppError {
	return errors.WithDetails(errors.ErrCodeValidation, message, details)
}
