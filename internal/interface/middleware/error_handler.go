package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/satriohq/blognest-api/pkg/apperror"
	"github.com/satriohq/blognest-api/pkg/response"
)

// ErrorHandler is the single error boundary: handlers and middlewares attach
// errors to the context and return, and the last error is rendered here.
// Typed errors keep their status and code; anything else becomes a 500.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			response.Error[any](c, appErr.Status, appErr.Message, gin.H{"code": appErr.Code})
			return
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("unhandled error")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
	}
}
