package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/poc3/api-backend/internal/crypto"
	"github.com/poc3/api-backend/internal/models"
)

// Context keys set by AdminAuthMiddleware
const (
	AdminSubjectKey = "admin_subject"
	AdminClaimsKey  = "admin_claims"
)

// TokenVerifier validates an admin bearer token
type TokenVerifier interface {
	ValidateToken(token string) (*crypto.AdminClaims, error)
}

// SecretVerifier verifies admin tokens against a base64 HMAC secret
type SecretVerifier string

// ValidateToken implements TokenVerifier
func (s SecretVerifier) ValidateToken(token string) (*crypto.AdminClaims, error) {
	return crypto.VerifyAdminJWT(token, string(s))
}

// AdminAuthMiddleware validates admin authentication using JWT tokens
// Tokens are minted with `go run ./scripts token` and sent as a Bearer token
func AdminAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorizedResponse(c, "Admin authentication required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorizedResponse(c, "Invalid authorization header format. Expected: Bearer <token>")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			unauthorizedResponse(c, "Token is required in Authorization header")
			return
		}

		claims, err := verifier.ValidateToken(tokenString)
		if err != nil {
			unauthorizedResponse(c, "Invalid or expired token")
			return
		}

		c.Set(AdminSubjectKey, claims.Subject)
		c.Set(AdminClaimsKey, claims)

		c.Next()
	}
}

func unauthorizedResponse(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
	})
}
