// Package repository contains hand-written testify mocks for the domain
// repository interfaces.
package repository

import (
	"context"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIdentityRepository mocks repository.IdentityRepository.
type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Identity), args.Error(1)
}

func (m *MockIdentityRepository) FindByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Identity), args.Error(1)
}

func (m *MockIdentityRepository) IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)

	return args.Int(0), args.Error(1)
}

func (m *MockIdentityRepository) SetLock(ctx context.Context, id uuid.UUID, until time.Time) error {
	args := m.Called(ctx, id, until)

	return args.Error(0)
}

func (m *MockIdentityRepository) ResetLockout(ctx context.Context, id uuid.UUID, stampLogin bool) error {
	args := m.Called(ctx, id, stampLogin)

	return args.Error(0)
}

func (m *MockIdentityRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)

	return args.Error(0)
}

func (m *MockIdentityRepository) SetTwoFactor(ctx context.Context, id uuid.UUID, enabled bool) error {
	args := m.Called(ctx, id, enabled)

	return args.Error(0)
}

// MockRefreshTokenRepository mocks repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) FindActiveByIdentityID(ctx context.Context, identityID uuid.UUID) ([]*entity.RefreshToken, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) RevokeByHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllByIdentityID(ctx context.Context, identityID uuid.UUID) error {
	args := m.Called(ctx, identityID)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpiredOrRevoked(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

// MockSecurityEventRepository mocks repository.SecurityEventRepository.
type MockSecurityEventRepository struct {
	mock.Mock
}

func (m *MockSecurityEventRepository) Create(ctx context.Context, event *entity.SecurityEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockSecurityEventRepository) List(ctx context.Context, filter repository.SecurityEventFilter) ([]*entity.SecurityEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.SecurityEvent), args.Error(1)
}

// MockLoginRecordRepository mocks repository.LoginRecordRepository.
type MockLoginRecordRepository struct {
	mock.Mock
}

func (m *MockLoginRecordRepository) Create(ctx context.Context, record *entity.LoginRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockLoginRecordRepository) FindSuccessfulSince(ctx context.Context, identityID uuid.UUID, since time.Time) ([]*entity.LoginRecord, error) {
	args := m.Called(ctx, identityID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.LoginRecord), args.Error(1)
}

func (m *MockLoginRecordRepository) List(ctx context.Context, filter repository.LoginRecordFilter) ([]*entity.LoginRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.LoginRecord), args.Error(1)
}

// MockRepositoryFactory mocks repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

func (m *MockRepositoryFactory) IdentityRepo() repository.IdentityRepository {
	args := m.Called()

	return args.Get(0).(repository.IdentityRepository)
}

func (m *MockRepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	args := m.Called()

	return args.Get(0).(repository.RefreshTokenRepository)
}

func (m *MockRepositoryFactory) SecurityEventRepo() repository.SecurityEventRepository {
	args := m.Called()

	return args.Get(0).(repository.SecurityEventRepository)
}

func (m *MockRepositoryFactory) LoginRecordRepo() repository.LoginRecordRepository {
	args := m.Called()

	return args.Get(0).(repository.LoginRecordRepository)
}

// MockTransactionManager mocks repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)

	return args.Error(0)
}
