// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gatehouse/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AuthenticateInput defines the data required for an authentication attempt.
type AuthenticateInput struct {
	Email    string
	Password string

	// TwoFactorCode is the optional one-time code; empty means "not supplied".
	TwoFactorCode string

	// Force bypasses credential evaluation entirely and proceeds straight to
	// session binding. Reserved for flows driven by an already-trusted
	// external identity provider.
	Force bool
}

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// --- Output DTOs ---

// AuthenticateOutput carries the terminal result of an attempt. Identity,
// AccessToken and SessionID are populated only when Result is the success
// value.
type AuthenticateOutput struct {
	Result      entity.AuthResult
	Identity    *entity.Identity
	AccessToken string
	SessionID   string
}

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// EnrollTwoFactorOutput returns the enrollment material for a freshly minted
// TOTP seed. QRCodePNG is the base64-encoded PNG of the provisioning URI.
type EnrollTwoFactorOutput struct {
	Secret          string
	ProvisioningURI string
	QRCodePNG       string
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Authenticate runs the ordered credential evaluation and, on success,
	// binds the identity and session. Authentication outcomes are reported
	// through Result; the error return carries infrastructure failures only.
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthenticateOutput, error)

	// Register creates a new user with a freshly hashed password.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// EnrollTwoFactor mints and persists a TOTP seed for the user, making
	// two-factor mandatory on their subsequent logins.
	EnrollTwoFactor(ctx context.Context, userID uuid.UUID) (*EnrollTwoFactorOutput, error)
}
