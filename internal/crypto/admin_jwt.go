package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims represents JWT claims for dashboard operators
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

const (
	// JWTIssuer is the issuer written into and required from every admin token
	JWTIssuer = "poc3-dashboard"

	// AdminRole is the only role admin routes accept
	AdminRole = "admin"

	// AdminJWTExpiration is the default admin token lifetime (24 hours)
	AdminJWTExpiration = 24 * time.Hour

	// SecretSize is the HMAC key length in bytes (256 bits)
	SecretSize = 32
)

// GenerateSecret returns a random HMAC key encoded as base64 for ADMIN_JWT_SECRET
func GenerateSecret() (string, error) {
	key := make([]byte, SecretSize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}

	return base64.StdEncoding.EncodeToString(key), nil
}

// GenerateAdminJWT signs an admin token for subject valid for ttl.
// A zero ttl falls back to AdminJWTExpiration.
func GenerateAdminJWT(subject string, jwtSecretBase64 string, ttl time.Duration) (token string, expiresAt time.Time, err error) {
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("subject is required")
	}
	if ttl <= 0 {
		ttl = AdminJWTExpiration
	}

	jwtSecret, err := decodeSecret(jwtSecretBase64)
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	expiresAtTime := now.Add(ttl)

	claims := AdminClaims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAtTime),
			Subject:   subject,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := jwtToken.SignedString(jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign JWT token: %w", err)
	}

	return tokenString, expiresAtTime, nil
}

// VerifyAdminJWT verifies a JWT token and returns the claims
// Returns error if token is invalid, expired, issued by someone else or not an admin token
func VerifyAdminJWT(tokenString string, jwtSecretBase64 string) (*AdminClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is required")
	}

	jwtSecret, err := decodeSecret(jwtSecretBase64)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	}, jwt.WithIssuer(JWTIssuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.Role != AdminRole {
		return nil, fmt.Errorf("token role %q is not allowed", claims.Role)
	}

	return claims, nil
}

// ValidateSecret checks that a base64 secret is usable for signing admin tokens
func ValidateSecret(jwtSecretBase64 string) error {
	_, err := decodeSecret(jwtSecretBase64)
	return err
}

func decodeSecret(jwtSecretBase64 string) ([]byte, error) {
	if jwtSecretBase64 == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(jwtSecretBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JWT secret: %w", err)
	}

	if len(jwtSecret) < SecretSize {
		return nil, fmt.Errorf("JWT secret must be at least %d bytes", SecretSize)
	}

	return jwtSecret, nil
}
