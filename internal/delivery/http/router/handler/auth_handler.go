// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"gatehouse/internal/delivery/http/response"
	"gatehouse/internal/domain/entity"
	"gatehouse/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// loginRequest is the login request payload. The one-time code is optional;
// callers resubmit with it after a REQUIRE_TWO_FACTOR result.
type loginRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	TwoFactorCode string `json:"twoFactorCode"`
}

// loginResponse is the successful login payload. The password hash never
// leaves the service.
type loginResponse struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	APIKey      string `json:"apiKey"`
	AccessToken string `json:"accessToken"`
	SessionID   string `json:"sessionId"`
}

// registerRequest is the registration request payload.
type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// registerResponse returns the created account without sensitive fields.
type registerResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Login handles the authentication request. Credential failures map to 401
// with the (possibly redacted) result code; infrastructure failures flow to
// the error middleware.
func (h *AuthHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Authenticate(c.Request().Context(), &usecase.AuthenticateInput{
		Email:         input.Email,
		Password:      input.Password,
		TwoFactorCode: input.TwoFactorCode,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if !output.Result.OK() {
		return response.Unauthorized(c, output.Result.String(), loginFailureMessage(output.Result))
	}

	return response.Success(c, http.StatusOK, loginResponse{
		UserID:      output.Identity.UserID.String(),
		Email:       output.Identity.Email,
		Username:    output.Identity.Username,
		Role:        output.Identity.Role.String(),
		APIKey:      output.Identity.APIKey,
		AccessToken: output.AccessToken,
		SessionID:   output.SessionID,
	}, "Login successful")
}

// loginFailureMessage maps a terminal result code to a user-facing message.
func loginFailureMessage(result entity.AuthResult) string {
	switch result {
	case entity.ResultRequireTwoFactor:
		return "A one-time code is required to complete sign-in"
	case entity.ResultInvalidTwoFactor:
		return "The one-time code is not valid"
	case entity.ResultPasswordInvalid:
		return "The password is not correct"
	case entity.ResultPasswordLockout:
		return "Too many failed attempts, try again later"
	default:
		return "The email or password is not correct"
	}
}

// Register handles the user registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input registerRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, registerResponse{
		UserID:    output.User.ID.String(),
		Email:     output.User.Email,
		Username:  output.User.Username,
		Status:    string(output.User.Status),
		Role:      output.User.Role.String(),
		CreatedAt: output.User.CreatedAt,
	}, "User registered successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
