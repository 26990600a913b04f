package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	domainerrors "github.com/Shiki0138/sms-sub003/internal/domain/errors"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"
	mockRepo "github.com/Shiki0138/sms-sub003/internal/mocks/repository"
	mockSvc "github.com/Shiki0138/sms-sub003/internal/mocks/service"
	"github.com/Shiki0138/sms-sub003/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service          usecase.AuthUsecase
	txManager        *mockRepo.MockTransactionManager
	identityRepo     *mockRepo.MockIdentityRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	loginRecordRepo  *mockRepo.MockLoginRecordRepository
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
	lockoutPolicy    *mockSvc.MockLockoutPolicy
	suspicion        *mockSvc.MockSuspicionDetector
	recorder         *mockSvc.MockSecurityEventRecorder
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	t.Helper()

	txManager := &mockRepo.MockTransactionManager{}
	identityRepo := &mockRepo.MockIdentityRepository{}
	refreshTokenRepo := &mockRepo.MockRefreshTokenRepository{}
	loginRecordRepo := &mockRepo.MockLoginRecordRepository{}
	hasher := &mockSvc.MockPasswordHasher{}
	tokenService := &mockSvc.MockTokenService{}
	lockoutPolicy := &mockSvc.MockLockoutPolicy{}
	suspicion := &mockSvc.MockSuspicionDetector{}
	recorder := &mockSvc.MockSecurityEventRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAuthService(AuthServiceParams{
		TxManager:        txManager,
		IdentityRepo:     identityRepo,
		RefreshTokenRepo: refreshTokenRepo,
		LoginRecordRepo:  loginRecordRepo,
		Hasher:           hasher,
		TokenService:     tokenService,
		LockoutPolicy:    lockoutPolicy,
		Suspicion:        suspicion,
		Recorder:         recorder,
		Logger:           logger,
	})

	return authServiceFixtures{
		service:          service,
		txManager:        txManager,
		identityRepo:     identityRepo,
		refreshTokenRepo: refreshTokenRepo,
		loginRecordRepo:  loginRecordRepo,
		hasher:           hasher,
		tokenService:     tokenService,
		lockoutPolicy:    lockoutPolicy,
		suspicion:        suspicion,
		recorder:         recorder,
	}
}

func activeIdentity() *entity.Identity {
	return &entity.Identity{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "staff@example.com",
		PasswordHash: "stored-hash",
		Role:         entity.RoleStaff,
		Active:       true,
		TenantActive: true,
	}
}

func loginInput() usecase.LoginInput {
	return usecase.LoginInput{
		Email:    "staff@example.com",
		Password: "Str0ng&Secret",
		Origin:   entity.Origin{IP: "203.0.113.9", UserAgent: "agent-a"},
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()
	input := loginInput()

	fx.identityRepo.On("FindByEmail", ctx, input.Email).Return(identity, nil)
	fx.hasher.On("Check", input.Password, identity.PasswordHash).Return(true)
	fx.lockoutPolicy.On("RecordOutcome", ctx, identity, true, input.Origin).
		Return(service.LockoutOutcome{Locked: false, AttemptsRemaining: 5}, nil)
	fx.loginRecordRepo.On("Create", ctx, mock.MatchedBy(func(record *entity.LoginRecord) bool {
		return record.Success && record.TenantID == identity.TenantID
	})).Return(nil)
	fx.suspicion.On("Evaluate", ctx, identity.ID, input.Origin).
		Return(service.SuspicionResult{}, nil)
	fx.tokenService.On("IssueAccessToken", identity).Return("access-token", int64(900), nil)
	fx.tokenService.On("NewRefreshSecret").Return("refresh-plaintext", "refresh-hash", nil)
	fx.tokenService.On("RefreshTokenTTL").Return(7 * 24 * time.Hour)
	fx.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)

			factory := &mockRepo.MockRepositoryFactory{}
			tokenRepo := &mockRepo.MockRefreshTokenRepository{}
			factory.On("RefreshTokenRepo").Return(tokenRepo)
			tokenRepo.On("Create", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
				return token.TokenHash == "refresh-hash" && token.IdentityID == identity.ID
			})).Return(nil)

			require.NoError(t, fn(factory))
			tokenRepo.AssertExpectations(t)
		}).
		Return(nil)
	fx.recorder.On("Record", ctx, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventLoginSuccess
	})).Return()

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-plaintext", output.RefreshToken)
	assert.Equal(t, int64(900), output.ExpiresIn)
	assert.False(t, output.Suspicious)
	assert.Equal(t, identity.ID, output.Identity.ID)
	fx.txManager.AssertExpectations(t)
	fx.recorder.AssertExpectations(t)
}

func TestAuthService_Login_UnknownEmailIsGeneric(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	input := loginInput()

	fx.identityRepo.On("FindByEmail", ctx, input.Email).Return(nil, repository.ErrIdentityNotFound)
	// The attempt is still recorded, attributed to the unknown-tenant bucket.
	fx.loginRecordRepo.On("Create", ctx, mock.MatchedBy(func(record *entity.LoginRecord) bool {
		return !record.Success && record.TenantID == entity.UnknownTenantID && record.IdentityID == nil
	})).Return(nil)

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.loginRecordRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPasswordIsGeneric(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()
	input := loginInput()

	fx.identityRepo.On("FindByEmail", ctx, input.Email).Return(identity, nil)
	fx.hasher.On("Check", input.Password, identity.PasswordHash).Return(false)
	fx.lockoutPolicy.On("RecordOutcome", ctx, identity, false, input.Origin).
		Return(service.LockoutOutcome{Locked: false, AttemptsRemaining: 4}, nil)
	fx.loginRecordRepo.On("Create", ctx, mock.Anything).Return(nil)
	fx.recorder.On("Record", ctx, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventLoginFailure
	})).Return()

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.tokenService.AssertNotCalled(t, "IssueAccessToken", mock.Anything)
}

func TestAuthService_Login_ThresholdCrossingLocks(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()
	input := loginInput()

	fx.identityRepo.On("FindByEmail", ctx, input.Email).Return(identity, nil)
	fx.hasher.On("Check", input.Password, identity.PasswordHash).Return(false)
	fx.lockoutPolicy.On("RecordOutcome", ctx, identity, false, input.Origin).
		Return(service.LockoutOutcome{Locked: true, AttemptsRemaining: 0}, nil)
	fx.loginRecordRepo.On("Create", ctx, mock.Anything).Return(nil)
	fx.recorder.On("Record", ctx, mock.Anything).Return()

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrAccountLocked)
}

func TestAuthService_Login_LockedRejectsCorrectPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()
	until := time.Now().Add(10 * time.Minute)
	identity.LockedUntil = &until
	input := loginInput()

	fx.identityRepo.On("FindByEmail", ctx, input.Email).Return(identity, nil)
	fx.loginRecordRepo.On("Create", ctx, mock.Anything).Return(nil)
	fx.recorder.On("Record", ctx, mock.Anything).Return()

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrAccountLocked)
	// The password must not even be hashed while the lock holds.
	fx.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	fx.lockoutPolicy.AssertNotCalled(t, "RecordOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()
	identity.Active = false
	input := loginInput()

	fx.identityRepo.On("FindByEmail", ctx, input.Email).Return(identity, nil)
	fx.loginRecordRepo.On("Create", ctx, mock.Anything).Return(nil)
	fx.recorder.On("Record", ctx, mock.Anything).Return()

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)
}

func TestAuthService_Login_InactiveTenant(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()
	identity.TenantActive = false
	input := loginInput()

	fx.identityRepo.On("FindByEmail", ctx, input.Email).Return(identity, nil)
	fx.loginRecordRepo.On("Create", ctx, mock.Anything).Return(nil)
	fx.recorder.On("Record", ctx, mock.Anything).Return()

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrTenantInactive)
}

func TestAuthService_Login_SuspicionFailureDoesNotBlock(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()
	input := loginInput()

	fx.identityRepo.On("FindByEmail", ctx, input.Email).Return(identity, nil)
	fx.hasher.On("Check", input.Password, identity.PasswordHash).Return(true)
	fx.lockoutPolicy.On("RecordOutcome", ctx, identity, true, input.Origin).
		Return(service.LockoutOutcome{AttemptsRemaining: 5}, nil)
	fx.loginRecordRepo.On("Create", ctx, mock.Anything).Return(nil)
	fx.suspicion.On("Evaluate", ctx, identity.ID, input.Origin).
		Return(service.SuspicionResult{}, assert.AnError)
	fx.tokenService.On("IssueAccessToken", identity).Return("access-token", int64(900), nil)
	fx.tokenService.On("NewRefreshSecret").Return("refresh-plaintext", "refresh-hash", nil)
	fx.tokenService.On("RefreshTokenTTL").Return(7 * 24 * time.Hour)
	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	fx.recorder.On("Record", ctx, mock.Anything).Return()

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	assert.False(t, output.Suspicious)
}

func refreshInput() usecase.RefreshInput {
	return usecase.RefreshInput{
		RefreshToken: "refresh-plaintext",
		Origin:       entity.Origin{IP: "203.0.113.9", UserAgent: "agent-a"},
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()
	input := refreshInput()

	token := &entity.RefreshToken{
		ID:         uuid.New(),
		IdentityID: identity.ID,
		TenantID:   identity.TenantID,
		TokenHash:  "refresh-hash",
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	fx.tokenService.On("HashSecret", input.RefreshToken).Return("refresh-hash")
	fx.refreshTokenRepo.On("FindByHash", ctx, "refresh-hash").Return(token, nil)
	fx.identityRepo.On("FindByID", ctx, identity.ID).Return(identity, nil)
	fx.tokenService.On("IssueAccessToken", identity).Return("new-access-token", int64(900), nil)
	fx.recorder.On("Record", ctx, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventTokenRefreshed
	})).Return()

	output, err := fx.service.Refresh(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "new-access-token", output.AccessToken)
	fx.recorder.AssertExpectations(t)
}

func TestAuthService_Refresh_RejectsUnusableTokens(t *testing.T) {
	identity := activeIdentity()

	tests := []struct {
		name  string
		token *entity.RefreshToken
	}{
		{name: "revoked", token: &entity.RefreshToken{
			IdentityID: identity.ID,
			ExpiresAt:  time.Now().Add(time.Hour),
			Revoked:    true,
		}},
		{name: "expired", token: &entity.RefreshToken{
			IdentityID: identity.ID,
			ExpiresAt:  time.Now().Add(-time.Minute),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)
			ctx := context.Background()
			input := refreshInput()

			fx.tokenService.On("HashSecret", input.RefreshToken).Return("refresh-hash")
			fx.refreshTokenRepo.On("FindByHash", ctx, "refresh-hash").Return(tt.token, nil)
			fx.refreshTokenRepo.On("RevokeByHash", ctx, "refresh-hash").Return(nil)

			output, err := fx.service.Refresh(ctx, input)

			assert.Nil(t, output)
			assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
			// The dead row is revoked on sight, not left for the sweep.
			fx.refreshTokenRepo.AssertNumberOfCalls(t, "RevokeByHash", 1)
			fx.tokenService.AssertNotCalled(t, "IssueAccessToken", mock.Anything)
		})
	}
}

func TestAuthService_Refresh_RevokeFailureKeepsInvalidError(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	input := refreshInput()

	expired := &entity.RefreshToken{
		IdentityID: uuid.New(),
		TokenHash:  "refresh-hash",
		ExpiresAt:  time.Now().Add(-time.Minute),
	}

	fx.tokenService.On("HashSecret", input.RefreshToken).Return("refresh-hash")
	fx.refreshTokenRepo.On("FindByHash", ctx, "refresh-hash").Return(expired, nil)
	fx.refreshTokenRepo.On("RevokeByHash", ctx, "refresh-hash").Return(assert.AnError)

	output, err := fx.service.Refresh(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	input := refreshInput()

	fx.tokenService.On("HashSecret", input.RefreshToken).Return("refresh-hash")
	fx.refreshTokenRepo.On("FindByHash", ctx, "refresh-hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	output, err := fx.service.Refresh(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Logout_UnknownTokenSucceeds(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.tokenService.On("HashSecret", "whatever").Return("refresh-hash")
	fx.refreshTokenRepo.On("FindByHash", ctx, "refresh-hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	err := fx.service.Logout(ctx, usecase.LogoutInput{RefreshToken: "whatever"})

	assert.NoError(t, err)
	fx.refreshTokenRepo.AssertNotCalled(t, "RevokeByHash", mock.Anything, mock.Anything)
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identityID := uuid.New()

	token := &entity.RefreshToken{
		IdentityID: identityID,
		TenantID:   uuid.New(),
		TokenHash:  "refresh-hash",
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	fx.tokenService.On("HashSecret", "refresh-plaintext").Return("refresh-hash")
	fx.refreshTokenRepo.On("FindByHash", ctx, "refresh-hash").Return(token, nil)
	fx.refreshTokenRepo.On("RevokeByHash", ctx, "refresh-hash").Return(nil)
	fx.recorder.On("Record", ctx, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventLogout
	})).Return()

	err := fx.service.Logout(ctx, usecase.LogoutInput{RefreshToken: "refresh-plaintext"})

	assert.NoError(t, err)
	fx.refreshTokenRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword_WrongCurrentPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()

	fx.identityRepo.On("FindByID", ctx, identity.ID).Return(identity, nil)
	fx.hasher.On("Check", "wrong", identity.PasswordHash).Return(false)

	err := fx.service.ChangePassword(ctx, usecase.ChangePasswordInput{
		IdentityID:      identity.ID,
		CurrentPassword: "wrong",
		NewPassword:     "N3w&Secret",
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.identityRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identity := activeIdentity()

	fx.identityRepo.On("FindByID", ctx, identity.ID).Return(identity, nil)
	fx.hasher.On("Check", "Str0ng&Secret", identity.PasswordHash).Return(true)
	fx.hasher.On("ValidatePasswordStrength", "N3w&Secret").Return(nil)
	fx.hasher.On("Hash", "N3w&Secret").Return("new-hash", nil)
	fx.identityRepo.On("UpdatePasswordHash", ctx, identity.ID, "new-hash").Return(nil)
	fx.recorder.On("Record", ctx, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventPasswordChanged
	})).Return()

	err := fx.service.ChangePassword(ctx, usecase.ChangePasswordInput{
		IdentityID:      identity.ID,
		CurrentPassword: "Str0ng&Secret",
		NewPassword:     "N3w&Secret",
	})

	assert.NoError(t, err)
	fx.identityRepo.AssertExpectations(t)
	fx.recorder.AssertExpectations(t)
}

func TestAuthService_UnlockAccount_CrossTenantIsRejected(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	target := activeIdentity()

	fx.identityRepo.On("FindByID", ctx, target.ID).Return(target, nil)

	err := fx.service.UnlockAccount(ctx, usecase.UnlockAccountInput{
		ActorTenantID:    uuid.New(), // a different tenant
		TargetIdentityID: target.ID,
	})

	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
	// The target's lock state must stay untouched.
	fx.lockoutPolicy.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything)
}

func TestAuthService_UnlockAccount_SameTenant(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	target := activeIdentity()

	fx.identityRepo.On("FindByID", ctx, target.ID).Return(target, nil)
	fx.lockoutPolicy.On("Unlock", ctx, target.ID).Return(nil)

	err := fx.service.UnlockAccount(ctx, usecase.UnlockAccountInput{
		ActorTenantID:    target.TenantID,
		TargetIdentityID: target.ID,
	})

	assert.NoError(t, err)
	fx.lockoutPolicy.AssertExpectations(t)
}

func TestAuthService_Sessions(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	identityID := uuid.New()

	tokens := []*entity.RefreshToken{
		{ID: uuid.New(), OriginIP: "203.0.113.9", UserAgent: "agent-a", ExpiresAt: time.Now().Add(time.Hour)},
		{ID: uuid.New(), OriginIP: "198.51.100.7", UserAgent: "agent-b", ExpiresAt: time.Now().Add(2 * time.Hour)},
	}

	fx.refreshTokenRepo.On("FindActiveByIdentityID", ctx, identityID).Return(tokens, nil)

	sessions, err := fx.service.Sessions(ctx, identityID)

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, tokens[0].ID, sessions[0].ID)
	assert.Equal(t, "agent-b", sessions[1].UserAgent)
}
