// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// LoginInput defines the data required for a staff member to log in.
type LoginInput struct {
	Email    string
	Password string
	Origin   entity.Origin
}

// RefreshInput carries the opaque refresh secret presented by the client.
type RefreshInput struct {
	RefreshToken string
	Origin       entity.Origin
}

// LogoutInput carries the refresh secret whose session is being ended.
type LogoutInput struct {
	RefreshToken string
	Origin       entity.Origin
}

// ChangePasswordInput defines the data required to rotate a password.
// The current password is always re-verified, even inside a valid session.
type ChangePasswordInput struct {
	IdentityID      uuid.UUID
	CurrentPassword string
	NewPassword     string
	Origin          entity.Origin
}

// UnlockAccountInput identifies the lock being cleared and the tenant on
// whose behalf the actor operates.
type UnlockAccountInput struct {
	ActorTenantID    uuid.UUID
	TargetIdentityID uuid.UUID
	Origin           entity.Origin
}

// SetTwoFactorInput flips the two-factor requirement for an identity.
type SetTwoFactorInput struct {
	IdentityID uuid.UUID
	Enabled    bool
	Origin     entity.Origin
}

// --- Output DTOs ---

// LoginOutput returns the credential pair and identity summary after a
// successful login. Suspicious marks logins from an unrecognized origin;
// it annotates, never blocks.
type LoginOutput struct {
	Identity     *entity.Summary `json:"identity"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	ExpiresIn    int64           `json:"expiresIn"`
	Suspicious   bool            `json:"suspicious"`
}

// RefreshOutput returns a fresh access token minted from a refresh session.
type RefreshOutput struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// SessionInfo describes one active refresh session without exposing the
// stored token hash.
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	OriginIP  string    `json:"originIp"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Refresh(ctx context.Context, input RefreshInput) (*RefreshOutput, error)
	Logout(ctx context.Context, input LogoutInput) error
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
	UnlockAccount(ctx context.Context, input UnlockAccountInput) error
	SetTwoFactor(ctx context.Context, input SetTwoFactorInput) error
	Sessions(ctx context.Context, identityID uuid.UUID) ([]*SessionInfo, error)
}
