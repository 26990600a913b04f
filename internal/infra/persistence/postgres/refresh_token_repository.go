package postgres

import (
	"context"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	domainerrors "github.com/Shiki0138/sms-sub003/internal/domain/errors"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create persists a new refresh token, representing a session.
func (repo *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := fromRefreshTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid identity reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required token information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	// Update the entity with generated values
	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindByHash retrieves a refresh token record by its securely stored hash.
// Expired or revoked rows are returned as-is; usability is the caller's call.
func (repo *refreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel

	if err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toRefreshTokenDomain(&tokenM), nil
}

// FindActiveByIdentityID retrieves all usable refresh tokens for an identity.
func (repo *refreshTokenRepository) FindActiveByIdentityID(ctx context.Context, identityID uuid.UUID) ([]*entity.RefreshToken, error) {
	var tokenModels []*model.RefreshTokenModel

	if err := repo.db.WithContext(ctx).
		Where("identity_id = ? AND revoked = ? AND expires_at > ?", identityID, false, time.Now()).
		Order("created_at DESC").
		Find(&tokenModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	tokens := make([]*entity.RefreshToken, 0, len(tokenModels))
	for _, tokenM := range tokenModels {
		tokens = append(tokens, toRefreshTokenDomain(tokenM))
	}

	return tokens, nil
}

// RevokeByHash marks the matching row revoked. Revoking an already-revoked
// or missing token is not an error.
func (repo *refreshTokenRepository) RevokeByHash(ctx context.Context, tokenHash string) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// RevokeAllByIdentityID marks every token of the identity revoked.
func (repo *refreshTokenRepository) RevokeAllByIdentityID(ctx context.Context, identityID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("identity_id = ? AND revoked = ?", identityID, false).
		Update("revoked", true).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeleteExpiredOrRevoked removes rows that can never mint an access token
// again and returns the number deleted.
func (repo *refreshTokenRepository) DeleteExpiredOrRevoked(ctx context.Context) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at < ? OR revoked = ?", time.Now(), true).
		Delete(&model.RefreshTokenModel{})
	if result.Error != nil {
		return 0, errors.WithStack(result.Error)
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toRefreshTokenDomain converts a GORM RefreshTokenModel to a domain RefreshToken entity.
func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:         data.ID,
		IdentityID: data.IdentityID,
		TenantID:   data.TenantID,
		TokenHash:  data.TokenHash,
		ExpiresAt:  data.ExpiresAt,
		Revoked:    data.Revoked,
		OriginIP:   data.OriginIP,
		UserAgent:  data.UserAgent,
		CreatedAt:  data.CreatedAt,
	}
}

// fromRefreshTokenDomain converts a domain RefreshToken entity to a GORM RefreshTokenModel.
func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	return &model.RefreshTokenModel{
		ID:         data.ID,
		IdentityID: data.IdentityID,
		TenantID:   data.TenantID,
		TokenHash:  data.TokenHash,
		ExpiresAt:  data.ExpiresAt,
		Revoked:    data.Revoked,
		OriginIP:   data.OriginIP,
		UserAgent:  data.UserAgent,
		CreatedAt:  data.CreatedAt,
	}
}
