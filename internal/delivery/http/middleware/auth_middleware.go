// Package middleware contains the HTTP middlewares of the delivery layer.
package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// Context keys set by the authentication middleware.
const (
	ContextKeyIdentityID = "identityID"
	ContextKeyTenantID   = "tenantID"
	ContextKeyRole       = "role"
	ContextKeyEmail      = "email"
)

// AuthMiddleware provides middleware for access token authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.tokenSvc.VerifyAccessToken(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		// Set identity info on the context for handlers to use
		c.Set(ContextKeyIdentityID, claims.IdentityID)
		c.Set(ContextKeyTenantID, claims.TenantID)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyEmail, claims.Email)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the caller holds one of
// the given roles. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRoles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextKeyRole).(entity.Role)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: role information missing"})
			}

			if !slices.Contains(requiredRoles, role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: insufficient role"})
			}

			return next(c)
		}
	}
}
