package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the correlation id in both directions
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin context key holding the id
	RequestIDKey = "request_id"

	maxRequestIDLength = 128
)

// RequestID propagates an incoming X-Request-ID or assigns a new UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "" outside that middleware
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
