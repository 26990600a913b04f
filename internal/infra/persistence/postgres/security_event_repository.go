package postgres

import (
	"context"
	"encoding/json"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	domainerrors "github.com/Shiki0138/sms-sub003/internal/domain/errors"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultListLimit = 100

// securityEventRepository implements the domain.SecurityEventRepository
// interface. The table is append-only; there is no update or delete path.
type securityEventRepository struct {
	db *gorm.DB
}

// NewSecurityEventRepository is the constructor for securityEventRepository.
func NewSecurityEventRepository(db *gorm.DB) repository.SecurityEventRepository {
	return &securityEventRepository{db: db}
}

// Create appends one security event to the audit trail.
func (repo *securityEventRepository) Create(ctx context.Context, event *entity.SecurityEvent) error {
	eventM, err := fromSecurityEventDomain(event)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(eventM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required event information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create security event")
	}

	event.ID = eventM.ID
	event.CreatedAt = eventM.CreatedAt

	return nil
}

// List returns events matching the filter, newest first. The tenant scope is
// mandatory; every query is bounded to one tenant.
func (repo *securityEventRepository) List(ctx context.Context, filter repository.SecurityEventFilter) ([]*entity.SecurityEvent, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.SecurityEventModel{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.IdentityID != nil {
		query = query.Where("identity_id = ?", *filter.IdentityID)
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", filter.Severity.String())
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", filter.Kind.String())
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

	var eventModels []*model.SecurityEventModel
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&eventModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	events := make([]*entity.SecurityEvent, 0, len(eventModels))
	for _, eventM := range eventModels {
		event, err := toSecurityEventDomain(eventM)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// --- Mapper Functions ---

func toSecurityEventDomain(data *model.SecurityEventModel) (*entity.SecurityEvent, error) {
	if data == nil {
		return nil, nil
	}

	var metadata map[string]any
	if len(data.Metadata) > 0 {
		if err := json.Unmarshal(data.Metadata, &metadata); err != nil {
			return nil, errors.Wrap(err, "failed to decode event metadata")
		}
	}

	return &entity.SecurityEvent{
		ID:          data.ID,
		TenantID:    data.TenantID,
		IdentityID:  data.IdentityID,
		Kind:        entity.EventKind(data.Kind),
		Severity:    entity.Severity(data.Severity),
		Description: data.Description,
		Metadata:    metadata,
		OriginIP:    data.OriginIP,
		UserAgent:   data.UserAgent,
		CreatedAt:   data.CreatedAt,
	}, nil
}

func fromSecurityEventDomain(data *entity.SecurityEvent) (*model.SecurityEventModel, error) {
	if data == nil {
		return nil, nil
	}

	var metadata []byte
	if len(data.Metadata) > 0 {
		encoded, err := json.Marshal(data.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode event metadata")
		}
		metadata = encoded
	}

	return &model.SecurityEventModel{
		ID:          data.ID,
		TenantID:    data.TenantID,
		IdentityID:  data.IdentityID,
		Kind:        data.Kind.String(),
		Severity:    data.Severity.String(),
		Description: data.Description,
		Metadata:    metadata,
		OriginIP:    data.OriginIP,
		UserAgent:   data.UserAgent,
		CreatedAt:   data.CreatedAt,
	}, nil
}
