package service

import (
	"context"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
)

// LockoutOutcome reports the lockout state after an authentication attempt.
type LockoutOutcome struct {
	Locked            bool
	AttemptsRemaining int
}

// LockoutPolicy tracks consecutive failed authentication attempts per
// identity and enforces a time-boxed lock.
//
// State machine per identity:
//
//	Unlocked -> (failures reach threshold) -> Locked(until)
//	Locked   -> (time elapses OR explicit unlock) -> Unlocked
type LockoutPolicy interface {
	// RecordOutcome records the result of one authentication attempt.
	// If the identity is already locked and the lock has not expired, it
	// short-circuits without mutation. A success resets the counter and
	// clears the lock; a failure increments the counter and applies the
	// lock when the threshold is reached.
	RecordOutcome(ctx context.Context, identity *entity.Identity, success bool, origin entity.Origin) (LockoutOutcome, error)

	// Unlock is the administrative override: resets the counter and clears
	// the lock regardless of elapsed time. Tenant isolation is enforced by
	// the caller, not by this component.
	Unlock(ctx context.Context, identityID uuid.UUID) error

	// Threshold returns the configured consecutive-failure threshold.
	Threshold() int
}
