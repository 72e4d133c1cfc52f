package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/shared/errors"
	"github.com/rhizano/era-beacon-api/internal/shared/utils"
	"go.uber.org/zap"
)

func ErrorHandlingMiddleware(logger *observability.Logger, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Process any errors that occurred during request handling
		if len(c.Errors) > 0 {
			// Get the last error (most relevant)
			err := c.Errors.Last().Err

			// Try to cast to AppError for structured handling
			appErr, ok := err.(*errors.AppError)
			if !ok {
				// If not an AppError, wrap it appropriately
				if c.Writer.Status() >= 500 {
					appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
				} else {
					appErr = errors.Wrap(err, errors.ErrCodeBadRequest, "Request processing error")
				}
			}

			// Record error metric
			if metrics != nil {
				metrics.RecordError(appErr.ErrorType, c.Request.Method, c.FullPath())
			}

			// Log the error with correlation IDs
			ctx := c.Request.Context()
			fields := []zap.Field{
				logger.Field("path", c.Request.URL.Path),
				logger.Field("method", c.Request.Method),
				logger.Field("status_code", c.Writer.Status()),
				logger.Field("error_type", appErr.ErrorType),
				logger.Field("error_code", appErr.Code),
			}

			if appErr.Err != nil {
				fields = append(fields, logger.Field("original_error", appErr.Err.Error()))
			}

			if appErr.Details != nil {
				fields = append(fields, logger.Field("details", appErr.Details))
			}

			if appErr.ErrorType == errors.ErrorTypeServer {
				logger.Error(ctx, "Server error occurred", fields...)
			} else {
				logger.Warn(ctx, "Client error occurred", fields...)
			}

			// Don't overwrite response if it's already been written
			if !c.Writer.Written() {
				utils.Error(c, appErr)
			}
		}
	}
}

// BodyLimitMiddleware restricts the maximum size of the request body to prevent OOM attacks.
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Use http.MaxBytesReader to enforce the limit at the reader level
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
