package notifications

import (
	"fmt"

	"github.com/rhizano/era-beacon-api/internal/shared/errors"
)

// Notification module errors
var (
	ErrEmployeeNotFound = errors.New(errors.ErrCodeNotFound, "Employee not found")
	ErrQueryFailed      = errors.New(errors.ErrCodeDatabaseError, "Failed to query absent employees")
	ErrDispatchFailed   = errors.New(errors.ErrCodeUpstreamDispatch, "Failed to deliver push notification")
)

// WrapNotificationError wraps an error with notification module context
func WrapNotificationError(err error, operation string) *errors.AppError {
	return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("Notification operation failed: %s", operation))
}

// ValidationError creates a validation error with details
func ValidationError(message string, details map[string]interface{}) *errors.AppError {
	return errors.WithDetails(errors.ErrCodeValidation, message, details)
}
