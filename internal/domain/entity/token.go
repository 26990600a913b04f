package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents a long-lived, server-tracked session credential.
// Only a SHA-256 hash of the raw secret is stored; the plaintext is shown to
// the client exactly once at issuance.
type RefreshToken struct {
	ID         uuid.UUID // The unique ID for this specific refresh token record.
	IdentityID uuid.UUID // Links this session to the Identity it belongs to.
	TenantID   uuid.UUID // Tenant scope, denormalized for tenant-bound queries.
	TokenHash  string    // SHA-256 hash of the raw refresh secret.
	ExpiresAt  time.Time // The exact time when this refresh token becomes invalid.
	Revoked    bool      // Explicitly revoked tokens are rejected before expiry.
	OriginIP   string    // Network address of the device that requested it.
	UserAgent  string    // Client signature of the device that requested it.
	CreatedAt  time.Time
}

// Expired reports whether the token is past its natural expiry.
func (t *RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// Usable reports whether the token may still mint access tokens.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && !t.Expired(now)
}
