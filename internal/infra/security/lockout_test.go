package security

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Shiki0138/sms-sub003/config"
	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"
	mockRepo "github.com/Shiki0138/sms-sub003/internal/mocks/repository"
	mockSvc "github.com/Shiki0138/sms-sub003/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type lockoutFixtures struct {
	policy       service.LockoutPolicy
	identityRepo *mockRepo.MockIdentityRepository
	recorder     *mockSvc.MockSecurityEventRecorder
}

func createTestLockoutPolicy(t *testing.T) lockoutFixtures {
	t.Helper()

	identityRepo := &mockRepo.MockIdentityRepository{}
	recorder := &mockSvc.MockSecurityEventRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	policy := NewLockoutPolicy(nil, identityRepo, recorder, logger)

	return lockoutFixtures{
		policy:       policy,
		identityRepo: identityRepo,
		recorder:     recorder,
	}
}

func testIdentity() *entity.Identity {
	return &entity.Identity{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Email:    "staff@example.com",
		Active:   true,
	}
}

func TestLockoutPolicy_FailureBelowThreshold(t *testing.T) {
	fx := createTestLockoutPolicy(t)
	identity := testIdentity()

	fx.identityRepo.On("IncrementFailedAttempts", mock.Anything, identity.ID).Return(2, nil)

	outcome, err := fx.policy.RecordOutcome(context.Background(), identity, false, entity.Origin{})

	require.NoError(t, err)
	assert.False(t, outcome.Locked)
	assert.Equal(t, 3, outcome.AttemptsRemaining)
	fx.identityRepo.AssertExpectations(t)
	fx.recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLockoutPolicy_FailureAtThresholdLocks(t *testing.T) {
	fx := createTestLockoutPolicy(t)
	identity := testIdentity()

	fx.identityRepo.On("IncrementFailedAttempts", mock.Anything, identity.ID).Return(5, nil)
	fx.identityRepo.On("SetLock", mock.Anything, identity.ID, mock.AnythingOfType("time.Time")).Return(nil)
	fx.recorder.On("Record", mock.Anything, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventAccountLocked && input.Severity == entity.SeverityCritical
	})).Return()

	outcome, err := fx.policy.RecordOutcome(context.Background(), identity, false, entity.Origin{IP: "203.0.113.9"})

	require.NoError(t, err)
	assert.True(t, outcome.Locked)
	assert.Equal(t, 0, outcome.AttemptsRemaining)
	fx.identityRepo.AssertExpectations(t)
	fx.recorder.AssertExpectations(t)
}

func TestLockoutPolicy_SuccessResetsCounter(t *testing.T) {
	fx := createTestLockoutPolicy(t)
	identity := testIdentity()
	identity.FailedAttempts = 4

	fx.identityRepo.On("ResetLockout", mock.Anything, identity.ID, true).Return(nil)

	outcome, err := fx.policy.RecordOutcome(context.Background(), identity, true, entity.Origin{})

	require.NoError(t, err)
	assert.False(t, outcome.Locked)
	assert.Equal(t, 5, outcome.AttemptsRemaining)
	fx.identityRepo.AssertExpectations(t)
}

func TestLockoutPolicy_LockedIdentityShortCircuits(t *testing.T) {
	fx := createTestLockoutPolicy(t)
	identity := testIdentity()
	until := time.Now().Add(10 * time.Minute)
	identity.LockedUntil = &until

	// Even a successful credential check must not touch the counters.
	outcome, err := fx.policy.RecordOutcome(context.Background(), identity, true, entity.Origin{})

	require.NoError(t, err)
	assert.True(t, outcome.Locked)
	fx.identityRepo.AssertNotCalled(t, "ResetLockout", mock.Anything, mock.Anything, mock.Anything)
	fx.identityRepo.AssertNotCalled(t, "IncrementFailedAttempts", mock.Anything, mock.Anything)
}

func TestLockoutPolicy_ExpiredLockIsIgnored(t *testing.T) {
	fx := createTestLockoutPolicy(t)
	identity := testIdentity()
	until := time.Now().Add(-time.Minute)
	identity.LockedUntil = &until

	fx.identityRepo.On("ResetLockout", mock.Anything, identity.ID, true).Return(nil)

	outcome, err := fx.policy.RecordOutcome(context.Background(), identity, true, entity.Origin{})

	require.NoError(t, err)
	assert.False(t, outcome.Locked)
	fx.identityRepo.AssertExpectations(t)
}

func TestLockoutPolicy_Unlock(t *testing.T) {
	fx := createTestLockoutPolicy(t)
	identity := testIdentity()

	fx.identityRepo.On("FindByID", mock.Anything, identity.ID).Return(identity, nil)
	fx.identityRepo.On("ResetLockout", mock.Anything, identity.ID, false).Return(nil)
	fx.recorder.On("Record", mock.Anything, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventAccountUnlocked && input.Severity == entity.SeverityInfo
	})).Return()

	err := fx.policy.Unlock(context.Background(), identity.ID)

	require.NoError(t, err)
	fx.identityRepo.AssertExpectations(t)
	fx.recorder.AssertExpectations(t)
}

func TestLockoutPolicy_ConfiguredThreshold(t *testing.T) {
	cfg := &config.Config{Lockout: &config.LockoutConfig{Threshold: 3, LockDuration: time.Minute}}
	identityRepo := &mockRepo.MockIdentityRepository{}
	recorder := &mockSvc.MockSecurityEventRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	policy := NewLockoutPolicy(cfg, identityRepo, recorder, logger)

	assert.Equal(t, 3, policy.Threshold())
}
