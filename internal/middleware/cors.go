package middleware

import (
	"fmt"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the cross-origin middleware. A "*" entry (or an empty list)
// allows every origin; otherwise only the listed origins are echoed back.
func CORS(origins, methods, headers []string) (gin.HandlerFunc, error) {
	cfg := cors.DefaultConfig()

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	if len(methods) > 0 {
		cfg.AllowMethods = methods
	}
	if len(headers) > 0 {
		cfg.AllowHeaders = headers
	}

	cfg.ExposeHeaders = []string{
		RequestIDHeader,
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
	}
	cfg.MaxAge = 12 * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid CORS configuration: %w", err)
	}

	return cors.New(cfg), nil
}
