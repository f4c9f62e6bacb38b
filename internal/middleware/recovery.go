package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poc3/api-backend/internal/models"
)

// InternalServerError is the only body clients see for unexpected failures
var InternalServerError = models.ErrorResponse{
	Error:   "Internal Server Error",
	Message: "Something went wrong!",
}

// Recovery turns panics into a generic 500. Details go to the log only.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("panic while handling request",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String(RequestIDKey, GetRequestID(c)),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, InternalServerError)
	})
}

// ErrorReporter answers with a generic 500 when a handler recorded an error
// through c.Error without writing a response. Errors behind a 4xx answer are
// logged as warnings.
func ErrorReporter(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		answered := c.Writer.Written()
		if !answered {
			c.AbortWithStatusJSON(http.StatusInternalServerError, InternalServerError)
		}

		log := logger.Error
		if answered && c.Writer.Status() < http.StatusInternalServerError {
			log = logger.Warn
		}

		for _, err := range c.Errors {
			log("request failed",
				zap.Error(err.Err),
				zap.Int("status", c.Writer.Status()),
				zap.String("path", c.Request.URL.Path),
				zap.String(RequestIDKey, GetRequestID(c)),
			)
		}
	}
}
