// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "github.com/Shiki0138/sms-sub003/internal/delivery/context"
	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	domainerrors "github.com/Shiki0138/sms-sub003/internal/domain/errors"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"
	"github.com/Shiki0138/sms-sub003/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface. It orchestrates the
// credential check, lockout policy, anomaly detection and audit trail for
// every authentication operation.
type authService struct {
	txManager        repository.TransactionManager
	identityRepo     repository.IdentityRepository
	refreshTokenRepo repository.RefreshTokenRepository
	loginRecordRepo  repository.LoginRecordRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	lockoutPolicy    service.LockoutPolicy
	suspicion        service.SuspicionDetector
	recorder         service.SecurityEventRecorder
	logger           *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	IdentityRepo     repository.IdentityRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	LoginRecordRepo  repository.LoginRecordRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	LockoutPolicy    service.LockoutPolicy
	Suspicion        service.SuspicionDetector
	Recorder         service.SecurityEventRecorder
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:        params.TxManager,
		identityRepo:     params.IdentityRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		loginRecordRepo:  params.LoginRecordRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		lockoutPolicy:    params.LockoutPolicy,
		suspicion:        params.Suspicion,
		recorder:         params.Recorder,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login authenticates an email/password pair. Failures are deliberately
// indistinguishable: a wrong password and an unknown email both return the
// generic invalid-credentials error.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	identity, err := srv.identityRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotFound) {
			return nil, srv.failUnknownIdentity(ctx, input)
		}

		return nil, errors.Wrap(err, "failed to load identity for login")
	}

	if !identity.Active {
		srv.recordLoginAttempt(ctx, identity, input, false)
		srv.recordFailureEvent(ctx, identity, input.Origin, "Login attempt on inactive account")

		return nil, domainerrors.ErrAccountInactive
	}
	if !identity.TenantActive {
		srv.recordLoginAttempt(ctx, identity, input, false)
		srv.recordFailureEvent(ctx, identity, input.Origin, "Login attempt on inactive tenant")

		return nil, domainerrors.ErrTenantInactive
	}

	// An unexpired lock rejects the attempt before the password is even
	// hashed. A correct password does not bypass the lock.
	if identity.Locked(time.Now()) {
		srv.recordLoginAttempt(ctx, identity, input, false)
		srv.recordFailureEvent(ctx, identity, input.Origin, "Login attempt on locked account")

		return nil, domainerrors.ErrAccountLocked
	}

	success := srv.hasher.Check(input.Password, identity.PasswordHash)

	outcome, err := srv.lockoutPolicy.RecordOutcome(ctx, identity, success, input.Origin)
	if err != nil {
		srv.log(ctx).Error("Failed to record authentication outcome", slog.Any("identityID", identity.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to record authentication outcome")
	}

	srv.recordLoginAttempt(ctx, identity, input, success)

	if !success {
		srv.recordFailureEvent(ctx, identity, input.Origin, "Invalid password")

		if outcome.Locked {
			return nil, domainerrors.ErrAccountLocked
		}

		return nil, domainerrors.ErrInvalidCredentials
	}

	// The caller may have gone away while bcrypt was running; do not mint
	// credentials nobody will receive.
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "login canceled before token issuance")
	}

	return srv.issueSession(ctx, identity, input.Origin)
}

// issueSession mints the credential pair and persists the refresh session
// after a verified login.
func (srv *authService) issueSession(ctx context.Context, identity *entity.Identity, origin entity.Origin) (*usecase.LoginOutput, error) {
	suspicious := false
	if result, err := srv.suspicion.Evaluate(ctx, identity.ID, origin); err != nil {
		// Detection is advisory; a broken baseline never blocks a login.
		srv.log(ctx).Error("Suspicious login evaluation failed", slog.Any("identityID", identity.ID), slog.Any("error", err))
	} else {
		suspicious = result.Suspicious
	}

	accessToken, expiresIn, err := srv.tokenService.IssueAccessToken(identity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	plaintext, hash, err := srv.tokenService.NewRefreshSecret()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh secret")
	}

	refreshToken := &entity.RefreshToken{
		IdentityID: identity.ID,
		TenantID:   identity.TenantID,
		TokenHash:  hash,
		ExpiresAt:  time.Now().Add(srv.tokenService.RefreshTokenTTL()),
		OriginIP:   origin.IP,
		UserAgent:  origin.UserAgent,
	}

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.RefreshTokenRepo().Create(ctx, refreshToken)
	}); err != nil {
		srv.log(ctx).Error("Failed to persist refresh session", slog.Any("identityID", identity.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist refresh session")
	}

	identityID := identity.ID
	srv.recorder.Record(ctx, service.SecurityEventInput{
		IdentityID:  &identityID,
		TenantID:    entity.ResolvedTenant(identity.TenantID),
		Kind:        entity.EventLoginSuccess,
		Severity:    entity.SeverityInfo,
		Description: "Successful login",
		Origin:      origin,
	})

	srv.log(ctx).Info("Login succeeded", slog.Any("identityID", identity.ID), slog.Bool("suspicious", suspicious))

	return &usecase.LoginOutput{
		Identity:     identity.Summarize(),
		AccessToken:  accessToken,
		RefreshToken: plaintext,
		ExpiresIn:    expiresIn,
		Suspicious:   suspicious,
	}, nil
}

// failUnknownIdentity handles a login for an email no identity carries. The
// attempt is still recorded, attributed to the unknown-tenant bucket, and
// the caller sees the same error as a wrong password.
func (srv *authService) failUnknownIdentity(ctx context.Context, input usecase.LoginInput) error {
	record := &entity.LoginRecord{
		TenantID:  entity.UnknownTenantID,
		Email:     input.Email,
		Success:   false,
		OriginIP:  input.Origin.IP,
		UserAgent: input.Origin.UserAgent,
	}
	if err := srv.loginRecordRepo.Create(ctx, record); err != nil {
		srv.log(ctx).Error("Failed to record login attempt for unknown identity", slog.Any("error", err))
	}

	return domainerrors.ErrInvalidCredentials
}

func (srv *authService) recordLoginAttempt(ctx context.Context, identity *entity.Identity, input usecase.LoginInput, success bool) {
	identityID := identity.ID
	record := &entity.LoginRecord{
		TenantID:   identity.TenantID,
		IdentityID: &identityID,
		Email:      input.Email,
		Success:    success,
		OriginIP:   input.Origin.IP,
		UserAgent:  input.Origin.UserAgent,
	}
	if err := srv.loginRecordRepo.Create(ctx, record); err != nil {
		srv.log(ctx).Error("Failed to record login attempt", slog.Any("identityID", identity.ID), slog.Any("error", err))
	}
}

func (srv *authService) recordFailureEvent(ctx context.Context, identity *entity.Identity, origin entity.Origin, description string) {
	identityID := identity.ID
	srv.recorder.Record(ctx, service.SecurityEventInput{
		IdentityID:  &identityID,
		TenantID:    entity.ResolvedTenant(identity.TenantID),
		Kind:        entity.EventLoginFailure,
		Severity:    entity.SeverityWarning,
		Description: description,
		Origin:      origin,
	})
}

// Refresh mints a new access token from a refresh session. The session is
// reusable until it expires or is revoked; it is not rotated on use.
func (srv *authService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	hash := srv.tokenService.HashSecret(input.RefreshToken)

	token, err := srv.refreshTokenRepo.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to load refresh session")
	}

	if !token.Usable(time.Now()) {
		// The row can never mint again; revoke it now instead of leaving
		// it for the sweep. Best effort, the caller's error stands alone.
		if err := srv.refreshTokenRepo.RevokeByHash(ctx, hash); err != nil {
			srv.log(ctx).Error("Failed to revoke unusable refresh session", slog.Any("error", err))
		}

		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	identity, err := srv.identityRepo.FindByID(ctx, token.IdentityID)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to load identity for refresh")
	}

	if !identity.Active {
		return nil, domainerrors.ErrAccountInactive
	}
	if !identity.TenantActive {
		return nil, domainerrors.ErrTenantInactive
	}

	accessToken, expiresIn, err := srv.tokenService.IssueAccessToken(identity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	identityID := identity.ID
	srv.recorder.Record(ctx, service.SecurityEventInput{
		IdentityID:  &identityID,
		TenantID:    entity.ResolvedTenant(identity.TenantID),
		Kind:        entity.EventTokenRefreshed,
		Severity:    entity.SeverityInfo,
		Description: "Access token refreshed",
		Origin:      input.Origin,
	})

	return &usecase.RefreshOutput{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}, nil
}

// Logout revokes the presented refresh session. It is idempotent and always
// succeeds from the caller's perspective: an unknown or already-revoked
// secret is not an error.
func (srv *authService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	hash := srv.tokenService.HashSecret(input.RefreshToken)

	token, err := srv.refreshTokenRepo.FindByHash(ctx, hash)
	if err != nil {
		if !errors.Is(err, repository.ErrRefreshTokenNotFound) {
			srv.log(ctx).Error("Failed to load refresh session for logout", slog.Any("error", err))
		}

		return nil
	}

	if err := srv.refreshTokenRepo.RevokeByHash(ctx, hash); err != nil {
		srv.log(ctx).Error("Failed to revoke refresh session", slog.Any("error", err))

		return nil
	}

	identityID := token.IdentityID
	srv.recorder.Record(ctx, service.SecurityEventInput{
		IdentityID:  &identityID,
		TenantID:    entity.ResolvedTenant(token.TenantID),
		Kind:        entity.EventLogout,
		Severity:    entity.SeverityInfo,
		Description: "Session ended by logout",
		Origin:      input.Origin,
	})

	return nil
}

// ChangePassword rotates a password after re-verifying the current one.
// Existing refresh sessions stay valid; only the credential changes.
func (srv *authService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	identity, err := srv.identityRepo.FindByID(ctx, input.IdentityID)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotFound) {
			return domainerrors.ErrIdentityNotFound
		}

		return errors.Wrap(err, "failed to load identity for password change")
	}

	if !srv.hasher.Check(input.CurrentPassword, identity.PasswordHash) {
		srv.log(ctx).Warn("Password change rejected: current password mismatch", slog.Any("identityID", identity.ID))

		return domainerrors.ErrInvalidCredentials
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	if err := srv.identityRepo.UpdatePasswordHash(ctx, identity.ID, hash); err != nil {
		return errors.Wrap(err, "failed to store new password hash")
	}

	identityID := identity.ID
	srv.recorder.Record(ctx, service.SecurityEventInput{
		IdentityID:  &identityID,
		TenantID:    entity.ResolvedTenant(identity.TenantID),
		Kind:        entity.EventPasswordChanged,
		Severity:    entity.SeverityInfo,
		Description: "Password changed",
		Origin:      input.Origin,
	})

	return nil
}

// UnlockAccount clears a lock on behalf of an administrator. The actor's
// tenant must match the target's tenant; a cross-tenant attempt is rejected
// without touching the target.
func (srv *authService) UnlockAccount(ctx context.Context, input usecase.UnlockAccountInput) error {
	target, err := srv.identityRepo.FindByID(ctx, input.TargetIdentityID)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotFound) {
			return domainerrors.ErrIdentityNotFound
		}

		return errors.Wrap(err, "failed to load identity for unlock")
	}

	if target.TenantID != input.ActorTenantID {
		srv.log(ctx).Warn("Cross-tenant unlock rejected",
			slog.Any("actorTenantID", input.ActorTenantID),
			slog.Any("targetIdentityID", input.TargetIdentityID))

		return domainerrors.ErrPermissionDenied
	}

	if err := srv.lockoutPolicy.Unlock(ctx, target.ID); err != nil {
		return errors.Wrap(err, "failed to unlock account")
	}

	return nil
}

// SetTwoFactor flips the two-factor requirement and records the change.
func (srv *authService) SetTwoFactor(ctx context.Context, input usecase.SetTwoFactorInput) error {
	identity, err := srv.identityRepo.FindByID(ctx, input.IdentityID)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotFound) {
			return domainerrors.ErrIdentityNotFound
		}

		return errors.Wrap(err, "failed to load identity for two-factor change")
	}

	if identity.TwoFactorEnabled == input.Enabled {
		return nil
	}

	if err := srv.identityRepo.SetTwoFactor(ctx, identity.ID, input.Enabled); err != nil {
		return errors.Wrap(err, "failed to update two-factor flag")
	}

	state := "disabled"
	if input.Enabled {
		state = "enabled"
	}

	identityID := identity.ID
	srv.recorder.Record(ctx, service.SecurityEventInput{
		IdentityID:  &identityID,
		TenantID:    entity.ResolvedTenant(identity.TenantID),
		Kind:        entity.EventTwoFactorChanged,
		Severity:    entity.SeverityInfo,
		Description: "Two-factor authentication " + state,
		Origin:      input.Origin,
	})

	return nil
}

// Sessions lists the identity's active refresh sessions.
func (srv *authService) Sessions(ctx context.Context, identityID uuid.UUID) ([]*usecase.SessionInfo, error) {
	tokens, err := srv.refreshTokenRepo.FindActiveByIdentityID(ctx, identityID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active sessions")
	}

	sessions := make([]*usecase.SessionInfo, 0, len(tokens))
	for _, token := range tokens {
		sessions = append(sessions, &usecase.SessionInfo{
			ID:        token.ID,
			OriginIP:  token.OriginIP,
			UserAgent: token.UserAgent,
			CreatedAt: token.CreatedAt,
			ExpiresAt: token.ExpiresAt,
		})
	}

	return sessions, nil
}
