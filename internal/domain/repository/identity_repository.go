// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrIdentityNotFound is a domain-specific error returned when an identity is not found.
var ErrIdentityNotFound = errors.New("identity not found")

// IdentityRepository defines the credential-store operations this engine consumes.
// The engine never creates or deletes identities; provisioning is external.
type IdentityRepository interface {
	// FindByID retrieves a single identity by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Identity, error)

	// FindByEmail retrieves a single identity by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Identity, error)

	// IncrementFailedAttempts atomically increments the failed-attempt counter
	// and returns the post-increment value. The increment must be a single
	// conditional update at the storage layer: two concurrent failures for the
	// same identity must observe distinct counter values.
	IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error)

	// SetLock stamps the lock expiry on the identity.
	SetLock(ctx context.Context, id uuid.UUID, until time.Time) error

	// ResetLockout clears the counter and the lock, stamping the last login
	// when stampLogin is true.
	ResetLockout(ctx context.Context, id uuid.UUID, stampLogin bool) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	// SetTwoFactor flips the two-factor-enabled flag.
	SetTwoFactor(ctx context.Context, id uuid.UUID, enabled bool) error
}
