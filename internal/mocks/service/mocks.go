// Package service contains hand-written testify mocks for the domain
// service interfaces.
package service

import (
	"context"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

func (m *MockPasswordHasher) ValidatePasswordStrength(password string) error {
	args := m.Called(password)

	return args.Error(0)
}

// MockTokenService mocks service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueAccessToken(identity *entity.Identity) (string, int64, error) {
	args := m.Called(identity)

	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockTokenService) VerifyAccessToken(token string) (*service.AccessClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.AccessClaims), args.Error(1)
}

func (m *MockTokenService) NewRefreshSecret() (string, string, error) {
	args := m.Called()

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) HashSecret(plaintext string) string {
	args := m.Called(plaintext)

	return args.String(0)
}

func (m *MockTokenService) AccessTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

func (m *MockTokenService) RefreshTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// MockLockoutPolicy mocks service.LockoutPolicy.
type MockLockoutPolicy struct {
	mock.Mock
}

func (m *MockLockoutPolicy) RecordOutcome(ctx context.Context, identity *entity.Identity, success bool, origin entity.Origin) (service.LockoutOutcome, error) {
	args := m.Called(ctx, identity, success, origin)

	return args.Get(0).(service.LockoutOutcome), args.Error(1)
}

func (m *MockLockoutPolicy) Unlock(ctx context.Context, identityID uuid.UUID) error {
	args := m.Called(ctx, identityID)

	return args.Error(0)
}

func (m *MockLockoutPolicy) Threshold() int {
	args := m.Called()

	return args.Int(0)
}

// MockSuspicionDetector mocks service.SuspicionDetector.
type MockSuspicionDetector struct {
	mock.Mock
}

func (m *MockSuspicionDetector) Evaluate(ctx context.Context, identityID uuid.UUID, origin entity.Origin) (service.SuspicionResult, error) {
	args := m.Called(ctx, identityID, origin)

	return args.Get(0).(service.SuspicionResult), args.Error(1)
}

// MockSecurityEventRecorder mocks service.SecurityEventRecorder.
type MockSecurityEventRecorder struct {
	mock.Mock
}

func (m *MockSecurityEventRecorder) Record(ctx context.Context, input service.SecurityEventInput) {
	m.Called(ctx, input)
}
