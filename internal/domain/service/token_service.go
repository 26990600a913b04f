package service

import (
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims defines the custom claims embedded in signed access tokens.
// Validity is purely a function of signature and expiry; access tokens are
// never persisted and cannot be revoked before natural expiry.
type AccessClaims struct {
	IdentityID uuid.UUID   `json:"identityId"`
	TenantID   uuid.UUID   `json:"tenantId"`
	Email      string      `json:"email"`
	Role       entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the two credential kinds of the engine:
// short-lived signed access tokens and opaque persisted refresh secrets.
type TokenService interface {
	// IssueAccessToken creates a signed access token for the identity and
	// returns it with its lifetime in seconds.
	IssueAccessToken(identity *entity.Identity) (token string, expiresIn int64, err error)

	// VerifyAccessToken validates signature, issuer, audience and expiry.
	// Every verification failure collapses to the same domain error so
	// callers cannot distinguish which check failed.
	VerifyAccessToken(token string) (*AccessClaims, error)

	// NewRefreshSecret generates a high-entropy opaque secret and the hash
	// under which it is stored. The plaintext is shown to the client once
	// and never persisted.
	NewRefreshSecret() (plaintext string, hash string, err error)

	// HashSecret derives the storage hash for a client-presented secret.
	HashSecret(plaintext string) string

	// AccessTokenTTL returns the configured access token lifetime.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}
