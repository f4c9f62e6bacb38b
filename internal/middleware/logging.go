package middleware

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLog writes one structured line per request. Probe paths are skipped.
func AccessLog(logger *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	return ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339Nano,
		UTC:        true,
		SkipPaths:  skipPaths,
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String(RequestIDKey, GetRequestID(c))}
		},
	})
}
