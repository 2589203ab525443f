package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
)

// Single shared admin identity. There are no per-staff accounts; every
// staff-only operation revalidates the bearer token independently, and there
// is no revocation path short of rotating the secret.
const adminSubject = "dealflow-admin"

// CheckPassword compares a submitted password against the configured admin
// secret in constant time.
func CheckPassword(configured, submitted string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}

// IssueToken signs a new HS256 admin token valid for ttl.
func IssueToken(secret string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("token secret is not configured")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateToken verifies signature, expiry and subject of a bearer token.
func ValidateToken(secret, tokenString string) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != adminSubject {
		return fmt.Errorf("invalid token: wrong subject")
	}
	return nil
}

// BearerFromRequest extracts the bearer token from the Authorization header.
// API Gateway does not normalize header casing.
func BearerFromRequest(request events.APIGatewayProxyRequest) (string, error) {
	header := request.Headers["Authorization"]
	if header == "" {
		header = request.Headers["authorization"]
	}
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("malformed Authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// Authenticate validates the request's bearer token against the configured
// secret. It is called at the top of every staff-only handler, before any
// data is touched.
func Authenticate(request events.APIGatewayProxyRequest, secret string) error {
	token, err := BearerFromRequest(request)
	if err != nil {
		return err
	}
	return ValidateToken(secret, token)
}
