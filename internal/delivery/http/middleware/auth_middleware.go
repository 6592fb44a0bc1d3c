package middleware

import (
	"net/http"
	"strings"

	"gatehouse/internal/domain/entity"
	"gatehouse/internal/domain/service"
	"gatehouse/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Context keys set by the Authenticate middleware for handlers to use.
const (
	ContextKeyUserID    = "userID"
	ContextKeyRole      = "role"
	ContextKeyAPIKey    = "apiKey"
	ContextKeySessionID = "sessionID"
)

// AuthMiddleware validates the access token and runs the session revocation
// check on every authenticated request. The token alone is not enough: the
// session it names must still be the active one for its API key.
type AuthMiddleware struct {
	tokenSvc   service.TokenService
	sessionUC  usecase.SessionUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, sessionUC usecase.SessionUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, sessionUC: sessionUC}
}

// Authenticate validates the JWT access token and enforces the
// single-active-session guarantee. A stale session's request is rejected here
// even though its token is otherwise valid.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		// The cache is the single source of truth for session ownership; it
		// must be consulted per request, never cached locally.
		status, err := m.sessionUC.CheckSession(c.Request().Context(), claims.APIKey, claims.SessionID)
		if err != nil {
			return err
		}
		if status == entity.SessionRevoked {
			return echo.NewHTTPError(http.StatusUnauthorized, "This session has been signed out")
		}

		// Set user info on the context for handlers to use
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyAPIKey, claims.APIKey)
		c.Set(ContextKeySessionID, claims.SessionID)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the user has a specific role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleVal := c.Get(ContextKeyRole)
			role, ok := roleVal.(string)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Permission denied: role information missing")
			}

			if role != requiredRole {
				return echo.NewHTTPError(http.StatusForbidden, "Permission denied: require '"+requiredRole+"' role")
			}

			return next(c)
		}
	}
}
