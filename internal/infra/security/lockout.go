// Package security implements the lockout, anomaly detection and audit
// recording domain services on top of the persistence layer.
package security

import (
	"context"
	"log/slog"
	"time"

	"github.com/Shiki0138/sms-sub003/config"
	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultLockThreshold = 5
	defaultLockDuration  = 30 * time.Minute
)

// lockoutPolicy implements service.LockoutPolicy over the identity repository.
// All counter mutations are single-statement conditional updates at the
// storage layer; no in-process locking is needed.
type lockoutPolicy struct {
	identityRepo repository.IdentityRepository
	recorder     service.SecurityEventRecorder
	threshold    int
	lockDuration time.Duration
	logger       *slog.Logger
}

// NewLockoutPolicy is the constructor for lockoutPolicy.
func NewLockoutPolicy(
	cfg *config.Config,
	identityRepo repository.IdentityRepository,
	recorder service.SecurityEventRecorder,
	logger *slog.Logger,
) service.LockoutPolicy {
	threshold := defaultLockThreshold
	lockDuration := defaultLockDuration
	if cfg != nil && cfg.Lockout != nil {
		if cfg.Lockout.Threshold > 0 {
			threshold = cfg.Lockout.Threshold
		}
		if cfg.Lockout.LockDuration > 0 {
			lockDuration = cfg.Lockout.LockDuration
		}
	}

	return &lockoutPolicy{
		identityRepo: identityRepo,
		recorder:     recorder,
		threshold:    threshold,
		lockDuration: lockDuration,
		logger:       logger,
	}
}

// RecordOutcome records the result of one authentication attempt.
func (p *lockoutPolicy) RecordOutcome(ctx context.Context, identity *entity.Identity, success bool, origin entity.Origin) (service.LockoutOutcome, error) {
	now := time.Now()

	// An unexpired lock short-circuits: no counter mutation, no events.
	if identity.Locked(now) {
		return service.LockoutOutcome{Locked: true, AttemptsRemaining: 0}, nil
	}

	if success {
		if err := p.identityRepo.ResetLockout(ctx, identity.ID, true); err != nil {
			return service.LockoutOutcome{}, errors.Wrap(err, "failed to reset lockout state")
		}

		return service.LockoutOutcome{Locked: false, AttemptsRemaining: p.threshold}, nil
	}

	attempts, err := p.identityRepo.IncrementFailedAttempts(ctx, identity.ID)
	if err != nil {
		return service.LockoutOutcome{}, errors.Wrap(err, "failed to increment failed attempts")
	}

	if attempts < p.threshold {
		return service.LockoutOutcome{Locked: false, AttemptsRemaining: p.threshold - attempts}, nil
	}

	until := now.Add(p.lockDuration)
	if err := p.identityRepo.SetLock(ctx, identity.ID, until); err != nil {
		return service.LockoutOutcome{}, errors.Wrap(err, "failed to apply lock")
	}

	identityID := identity.ID
	p.recorder.Record(ctx, service.SecurityEventInput{
		IdentityID:  &identityID,
		TenantID:    entity.ResolvedTenant(identity.TenantID),
		Kind:        entity.EventAccountLocked,
		Severity:    entity.SeverityCritical,
		Description: "Account locked after repeated failed login attempts",
		Metadata: map[string]any{
			"failedAttempts": attempts,
			"lockedUntil":    until.UTC().Format(time.RFC3339),
		},
		Origin: origin,
	})

	p.logger.Warn("Account locked",
		slog.Any("identityID", identity.ID),
		slog.Int("failedAttempts", attempts),
		slog.Time("lockedUntil", until))

	return service.LockoutOutcome{Locked: true, AttemptsRemaining: 0}, nil
}

// Unlock is the administrative override: resets the counter and clears the
// lock regardless of elapsed time.
func (p *lockoutPolicy) Unlock(ctx context.Context, identityID uuid.UUID) error {
	identity, err := p.identityRepo.FindByID(ctx, identityID)
	if err != nil {
		return errors.Wrap(err, "failed to load identity for unlock")
	}

	if err := p.identityRepo.ResetLockout(ctx, identityID, false); err != nil {
		return errors.Wrap(err, "failed to clear lockout state")
	}

	p.recorder.Record(ctx, service.SecurityEventInput{
		IdentityID:  &identityID,
		TenantID:    entity.ResolvedTenant(identity.TenantID),
		Kind:        entity.EventAccountUnlocked,
		Severity:    entity.SeverityInfo,
		Description: "Account unlocked by administrator",
	})

	return nil
}

// Threshold returns the configured consecutive-failure threshold.
func (p *lockoutPolicy) Threshold() int {
	return p.threshold
}
