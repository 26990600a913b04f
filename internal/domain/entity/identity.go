// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Identity is an authenticatable staff principal scoped to one tenant.
// It is created by an external provisioning flow; this engine only mutates
// its security state (counters, lock, password hash, last login).
type Identity struct {
	ID               uuid.UUID  // The unique identifier for this identity.
	TenantID         uuid.UUID  // The tenant this identity belongs to.
	Email            string     // Login identifier, unique across tenants.
	Name             string     // Display name.
	PasswordHash     string     // bcrypt hash of the current password.
	Role             Role       // Enumerated role (admin/manager/staff).
	Active           bool       // Inactive identities cannot authenticate.
	TenantActive     bool       // Denormalized tenant activation flag.
	FailedAttempts   int        // Consecutive failed login attempts.
	LockedUntil      *time.Time // Lock expiry; nil when not locked.
	TwoFactorEnabled bool       // Whether a second factor is required.
	LastLoginAt      *time.Time // Timestamp of the last successful login.
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Locked reports whether the identity is locked at the given instant.
func (i *Identity) Locked(now time.Time) bool {
	return i.LockedUntil != nil && i.LockedUntil.After(now)
}

// Summary is the identity projection returned to callers after login.
// It never carries the password hash or lockout counters.
type Summary struct {
	ID               uuid.UUID `json:"id"`
	TenantID         uuid.UUID `json:"tenantId"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Role             Role      `json:"role"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
}

// Summarize builds the caller-facing projection of the identity.
func (i *Identity) Summarize() *Summary {
	return &Summary{
		ID:               i.ID,
		TenantID:         i.TenantID,
		Email:            i.Email,
		Name:             i.Name,
		Role:             i.Role,
		TwoFactorEnabled: i.TwoFactorEnabled,
	}
}
