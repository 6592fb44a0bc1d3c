package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by access tokens. The API key and
// session ID travel together so the per-request revocation check has both
// sides of the binding without a store lookup.
type Claims struct {
	UserID    uuid.UUID
	Role      string
	APIKey    string
	SessionID string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateAccessToken creates a signed access token binding the user,
	// their API key and the session identifier issued at login.
	GenerateAccessToken(userID uuid.UUID, role, apiKey, sessionID string) (string, error)

	// ValidateToken checks the validity of a token string.
	ValidateToken(tokenString string) (*Claims, error)

	// GetAccessTokenDuration returns the configured access token lifetime.
	GetAccessTokenDuration() time.Duration
}
