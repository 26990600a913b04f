package impl

import (
	"context"
	"testing"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	mockRepo "github.com/Shiki0138/sms-sub003/internal/mocks/repository"
	"github.com/Shiki0138/sms-sub003/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestReportService(t *testing.T) (usecase.SecurityReportUsecase, *mockRepo.MockSecurityEventRepository, *mockRepo.MockLoginRecordRepository) {
	t.Helper()

	eventRepo := &mockRepo.MockSecurityEventRepository{}
	loginRecordRepo := &mockRepo.MockLoginRecordRepository{}

	service := NewReportService(ReportServiceParams{
		EventRepo:       eventRepo,
		LoginRecordRepo: loginRecordRepo,
	})

	return service, eventRepo, loginRecordRepo
}

func TestReportService_ListSecurityEvents(t *testing.T) {
	service, eventRepo, _ := createTestReportService(t)
	tenantID := uuid.New()
	identityID := uuid.New()
	severity := entity.SeverityCritical
	from := time.Now().Add(-24 * time.Hour)

	events := []*entity.SecurityEvent{
		{ID: uuid.New(), TenantID: tenantID, Kind: entity.EventAccountLocked, Severity: entity.SeverityCritical},
	}

	eventRepo.On("List", mock.Anything, mock.MatchedBy(func(filter repository.SecurityEventFilter) bool {
		return filter.TenantID == tenantID &&
			filter.IdentityID != nil && *filter.IdentityID == identityID &&
			filter.Severity != nil && *filter.Severity == severity &&
			filter.From != nil && filter.From.Equal(from) &&
			filter.Limit == 25
	})).Return(events, nil)

	got, err := service.ListSecurityEvents(context.Background(), usecase.SecurityEventQuery{
		TenantID:   tenantID,
		IdentityID: &identityID,
		Severity:   &severity,
		From:       &from,
		Limit:      25,
	})

	require.NoError(t, err)
	assert.Equal(t, events, got)
	eventRepo.AssertExpectations(t)
}

func TestReportService_ListLoginRecords(t *testing.T) {
	service, _, loginRecordRepo := createTestReportService(t)
	tenantID := uuid.New()
	failed := false

	records := []*entity.LoginRecord{
		{ID: uuid.New(), TenantID: tenantID, Success: false},
	}

	loginRecordRepo.On("List", mock.Anything, mock.MatchedBy(func(filter repository.LoginRecordFilter) bool {
		return filter.TenantID == tenantID &&
			filter.Success != nil && *filter.Success == failed &&
			filter.Offset == 50
	})).Return(records, nil)

	got, err := service.ListLoginRecords(context.Background(), usecase.LoginRecordQuery{
		TenantID: tenantID,
		Success:  &failed,
		Offset:   50,
	})

	require.NoError(t, err)
	assert.Equal(t, records, got)
	loginRecordRepo.AssertExpectations(t)
}
