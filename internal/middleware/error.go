package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
)

// ErrorHandler renders the last error attached with c.Error as the standard
// {"error":{"code","message"}} body, unless a response was already written.
// Non-AppErrors become INTERNAL_ERROR; internal causes are logged only.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.Get()

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			log.Errorw("unexpected error",
				"error", err.Error(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", c.GetString(requestIDKey),
			)
			appErr = apperrors.ErrInternalServer
		} else if appErr.Internal != nil {
			log.Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", c.GetString(requestIDKey),
			)
		}

		abortWithAppError(c, appErr)
	}
}
