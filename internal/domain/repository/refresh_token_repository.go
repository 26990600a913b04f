// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenNotFound is returned when a refresh token is not found.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// RefreshTokenRepository defines the interface for refresh token and session
// management operations. Tokens are stored hashed; callers always pass the
// SHA-256 hash of the client-presented secret, never the plaintext.
type RefreshTokenRepository interface {
	// Create persists a new refresh token, representing a session.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByHash retrieves a refresh token record by its stored hash.
	// Expired or revoked rows are returned as-is; usability checks belong
	// to the caller.
	FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// FindActiveByIdentityID retrieves all usable refresh tokens for an identity.
	FindActiveByIdentityID(ctx context.Context, identityID uuid.UUID) ([]*entity.RefreshToken, error)

	// RevokeByHash marks the matching row revoked. Idempotent: revoking an
	// already-revoked or missing token is not an error.
	RevokeByHash(ctx context.Context, tokenHash string) error

	// RevokeAllByIdentityID marks every token of the identity revoked. Idempotent.
	RevokeAllByIdentityID(ctx context.Context, identityID uuid.UUID) error

	// DeleteExpiredOrRevoked removes rows that are expired or revoked and
	// returns the number deleted. Safe to run concurrently with issuance.
	DeleteExpiredOrRevoked(ctx context.Context) (int64, error)
}
