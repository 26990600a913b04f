// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/Shiki0138/sms-sub003/internal/delivery/http/middleware"
	"github.com/Shiki0138/sms-sub003/internal/delivery/http/router/handler"
	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	SecurityHandler *handler.SecurityHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	securityHandler *handler.SecurityHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		securityHandler: params.SecurityHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Credential endpoints; no token required
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	// Session-bound endpoints for the authenticated staff member
	meGroup := e.Group("/auth")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.POST("/password", r.authHandler.ChangePassword)
		meGroup.PUT("/two-factor", r.authHandler.SetTwoFactor)
		meGroup.GET("/sessions", r.authHandler.Sessions)
	}

	// Administrative endpoints, restricted to elevated roles
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
	{
		adminGroup.POST("/identities/:id/unlock", r.authHandler.UnlockAccount)
		adminGroup.GET("/security/events", r.securityHandler.ListEvents)
		adminGroup.GET("/security/logins", r.securityHandler.ListLogins)
	}
}
