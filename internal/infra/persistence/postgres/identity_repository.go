package postgres

import (
	"context"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// identityRepository implements the domain.IdentityRepository interface.
type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository is the constructor for identityRepository.
func NewIdentityRepository(db *gorm.DB) repository.IdentityRepository {
	return &identityRepository{db: db}
}

// FindByID retrieves a single identity by its unique ID.
func (repo *identityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Identity, error) {
	var identityM model.IdentityModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&identityM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toIdentityDomain(&identityM), nil
}

// FindByEmail retrieves a single identity by its email address.
func (repo *identityRepository) FindByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var identityM model.IdentityModel

	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&identityM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toIdentityDomain(&identityM), nil
}

// IncrementFailedAttempts bumps the counter in a single UPDATE ... RETURNING
// statement so concurrent failures for the same identity each observe a
// distinct post-increment value.
func (repo *identityRepository) IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	var attempts int

	result := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Raw(`UPDATE identities
			SET failed_attempts = failed_attempts + 1, updated_at = NOW()
			WHERE id = ?
			RETURNING failed_attempts`, id).
		Scan(&attempts)
	if result.Error != nil {
		return 0, errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, repository.ErrIdentityNotFound
	}

	return attempts, nil
}

// SetLock stamps the lock expiry on the identity.
func (repo *identityRepository) SetLock(ctx context.Context, id uuid.UUID, until time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.IdentityModel{}).
		Where("id = ?", id).
		Update("locked_until", until)
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrIdentityNotFound
	}

	return nil
}

// ResetLockout clears the counter and the lock, stamping the last login
// when stampLogin is true.
func (repo *identityRepository) ResetLockout(ctx context.Context, id uuid.UUID, stampLogin bool) error {
	updates := map[string]any{
		"failed_attempts": 0,
		"locked_until":    nil,
	}
	if stampLogin {
		updates["last_login_at"] = time.Now()
	}

	result := repo.db.WithContext(ctx).
		Model(&model.IdentityModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrIdentityNotFound
	}

	return nil
}

// UpdatePasswordHash replaces the stored password hash.
func (repo *identityRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.IdentityModel{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrIdentityNotFound
	}

	return nil
}

// SetTwoFactor flips the two-factor-enabled flag.
func (repo *identityRepository) SetTwoFactor(ctx context.Context, id uuid.UUID, enabled bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.IdentityModel{}).
		Where("id = ?", id).
		Update("two_factor_enabled", enabled)
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrIdentityNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toIdentityDomain converts a GORM IdentityModel to a domain Identity entity.
func toIdentityDomain(data *model.IdentityModel) *entity.Identity {
	if data == nil {
		return nil
	}

	return &entity.Identity{
		ID:               data.ID,
		TenantID:         data.TenantID,
		Email:            data.Email,
		Name:             data.Name,
		PasswordHash:     data.PasswordHash,
		Role:             entity.Role(data.Role),
		Active:           data.Active,
		TenantActive:     data.TenantActive,
		FailedAttempts:   data.FailedAttempts,
		LockedUntil:      data.LockedUntil,
		TwoFactorEnabled: data.TwoFactorEnabled,
		LastLoginAt:      data.LastLoginAt,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
