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

// loginRecordRepository implements the domain.LoginRecordRepository interface.
type loginRecordRepository struct {
	db *gorm.DB
}

// NewLoginRecordRepository is the constructor for loginRecordRepository.
func NewLoginRecordRepository(db *gorm.DB) repository.LoginRecordRepository {
	return &loginRecordRepository{db: db}
}

// Create appends one login record.
func (repo *loginRecordRepository) Create(ctx context.Context, record *entity.LoginRecord) error {
	recordM := fromLoginRecordDomain(record)

	if err := repo.db.WithContext(ctx).Create(recordM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required login record information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create login record")
	}

	record.ID = recordM.ID
	record.CreatedAt = recordM.CreatedAt

	return nil
}

// FindSuccessfulSince returns the successful logins of an identity after the
// given instant, oldest first. This is the anomaly baselining query; it is
// read-only and may be served by a replica.
func (repo *loginRecordRepository) FindSuccessfulSince(ctx context.Context, identityID uuid.UUID, since time.Time) ([]*entity.LoginRecord, error) {
	var recordModels []*model.LoginRecordModel

	if err := repo.db.WithContext(ctx).
		Where("identity_id = ? AND success = ? AND created_at >= ?", identityID, true, since).
		Order("created_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	records := make([]*entity.LoginRecord, 0, len(recordModels))
	for _, recordM := range recordModels {
		records = append(records, toLoginRecordDomain(recordM))
	}

	return records, nil
}

// List returns records matching the filter, newest first.
func (repo *loginRecordRepository) List(ctx context.Context, filter repository.LoginRecordFilter) ([]*entity.LoginRecord, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.LoginRecordModel{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.IdentityID != nil {
		query = query.Where("identity_id = ?", *filter.IdentityID)
	}
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var recordModels []*model.LoginRecordModel
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&recordModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	records := make([]*entity.LoginRecord, 0, len(recordModels))
	for _, recordM := range recordModels {
		records = append(records, toLoginRecordDomain(recordM))
	}

	return records, nil
}

// --- Mapper Functions ---

func toLoginRecordDomain(data *model.LoginRecordModel) *entity.LoginRecord {
	if data == nil {
		return nil
	}

	return &entity.LoginRecord{
		ID:         data.ID,
		TenantID:   data.TenantID,
		IdentityID: data.IdentityID,
		Email:      data.Email,
		Success:    data.Success,
		OriginIP:   data.OriginIP,
		UserAgent:  data.UserAgent,
		CreatedAt:  data.CreatedAt,
	}
}

func fromLoginRecordDomain(data *entity.LoginRecord) *model.LoginRecordModel {
	if data == nil {
		return nil
	}

	return &model.LoginRecordModel{
		ID:         data.ID,
		TenantID:   data.TenantID,
		IdentityID: data.IdentityID,
		Email:      data.Email,
		Success:    data.Success,
		OriginIP:   data.OriginIP,
		UserAgent:  data.UserAgent,
		CreatedAt:  data.CreatedAt,
	}
}
