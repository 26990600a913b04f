package impl

import (
	"context"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reportService implements the SecurityReportUsecase interface.
type reportService struct {
	eventRepo       repository.SecurityEventRepository
	loginRecordRepo repository.LoginRecordRepository
}

// ReportServiceParams holds dependencies for reportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	EventRepo       repository.SecurityEventRepository
	LoginRecordRepo repository.LoginRecordRepository
}

// NewReportService is the constructor for reportService.
func NewReportService(params ReportServiceParams) usecase.SecurityReportUsecase {
	return &reportService{
		eventRepo:       params.EventRepo,
		loginRecordRepo: params.LoginRecordRepo,
	}
}

// ListSecurityEvents returns the tenant's audit trail, newest first.
func (srv *reportService) ListSecurityEvents(ctx context.Context, query usecase.SecurityEventQuery) ([]*entity.SecurityEvent, error) {
	events, err := srv.eventRepo.List(ctx, repository.SecurityEventFilter{
		TenantID:   query.TenantID,
		IdentityID: query.IdentityID,
		Severity:   query.Severity,
		Kind:       query.Kind,
		From:       query.From,
		To:         query.To,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list security events")
	}

	return events, nil
}

// ListLoginRecords returns the tenant's login history, newest first.
func (srv *reportService) ListLoginRecords(ctx context.Context, query usecase.LoginRecordQuery) ([]*entity.LoginRecord, error) {
	records, err := srv.loginRecordRepo.List(ctx, repository.LoginRecordFilter{
		TenantID:   query.TenantID,
		IdentityID: query.IdentityID,
		Success:    query.Success,
		From:       query.From,
		To:         query.To,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list login records")
	}

	return records, nil
}
