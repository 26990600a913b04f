// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/Shiki0138/sms-sub003/internal/delivery/http/middleware"
	"github.com/Shiki0138/sms-sub003/internal/delivery/http/response"
	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type twoFactorRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// originOf captures the network and client metadata of the request.
func originOf(c echo.Context) entity.Origin {
	return entity.Origin{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// Login handles the staff login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Origin:   originOf(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Refresh handles the access token refresh request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Refresh(c.Request().Context(), usecase.RefreshInput{
		RefreshToken: req.RefreshToken,
		Origin:       originOf(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Token refreshed successfully")
}

// Logout handles the logout request. It succeeds even for unknown tokens.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Logout(c.Request().Context(), usecase.LogoutInput{
		RefreshToken: req.RefreshToken,
		Origin:       originOf(c),
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// ChangePassword rotates the authenticated caller's password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	identityID, ok := c.Get(middleware.ContextKeyIdentityID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Identity information missing")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.ChangePassword(c.Request().Context(), usecase.ChangePasswordInput{
		IdentityID:      identityID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Origin:          originOf(c),
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

// UnlockAccount clears a lock on behalf of a tenant administrator.
func (h *AuthHandler) UnlockAccount(c echo.Context) error {
	tenantID, ok := c.Get(middleware.ContextKeyTenantID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Tenant information missing")
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid identity id")
	}

	if err := h.uc.UnlockAccount(c.Request().Context(), usecase.UnlockAccountInput{
		ActorTenantID:    tenantID,
		TargetIdentityID: targetID,
		Origin:           originOf(c),
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Account unlocked successfully")
}

// SetTwoFactor flips the authenticated caller's two-factor requirement.
func (h *AuthHandler) SetTwoFactor(c echo.Context) error {
	identityID, ok := c.Get(middleware.ContextKeyIdentityID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Identity information missing")
	}

	var req twoFactorRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid two-factor input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.SetTwoFactor(c.Request().Context(), usecase.SetTwoFactorInput{
		IdentityID: identityID,
		Enabled:    *req.Enabled,
		Origin:     originOf(c),
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Two-factor setting updated")
}

// Sessions lists the authenticated caller's active sessions.
func (h *AuthHandler) Sessions(c echo.Context) error {
	identityID, ok := c.Get(middleware.ContextKeyIdentityID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Identity information missing")
	}

	sessions, err := h.uc.Sessions(c.Request().Context(), identityID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "")
}
