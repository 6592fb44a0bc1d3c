package handler

import (
	"net/http"

	"gatehouse/internal/delivery/http/middleware"
	"gatehouse/internal/delivery/http/response"
	"gatehouse/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for authenticated user handlers.
type UserHandler struct {
	authUC    usecase.AuthUsecase
	sessionUC usecase.SessionUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(authUC usecase.AuthUsecase, sessionUC usecase.SessionUsecase) *UserHandler {
	return &UserHandler{authUC: authUC, sessionUC: sessionUC}
}

// GetProfile returns the identity attributes bound at login. Reaching this
// handler at all means the session passed the revocation check.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	role, _ := c.Get(middleware.ContextKeyRole).(string)
	apiKey, _ := c.Get(middleware.ContextKeyAPIKey).(string)

	return response.Success(c, http.StatusOK, map[string]string{
		"userId": userID.String(),
		"role":   role,
		"apiKey": apiKey,
	}, "Profile retrieved successfully")
}

// Logout removes the caller's session binding, ending the live session for
// their API key.
func (h *UserHandler) Logout(c echo.Context) error {
	apiKey, ok := c.Get(middleware.ContextKeyAPIKey).(string)
	if !ok || apiKey == "" {
		return response.Unauthorized(c, "TOKEN_INVALID", "API key missing from token")
	}

	if err := h.sessionUC.Logout(c.Request().Context(), apiKey); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// EnrollTwoFactor mints a TOTP seed for the caller and returns the
// enrollment material, including a QR code of the provisioning URI.
func (h *UserHandler) EnrollTwoFactor(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	output, err := h.authUC.EnrollTwoFactor(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Two-factor enrollment created")
}
