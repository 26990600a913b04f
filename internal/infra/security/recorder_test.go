package security

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"
	mockRepo "github.com/Shiki0138/sms-sub003/internal/mocks/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func createTestRecorder(t *testing.T) (service.SecurityEventRecorder, *mockRepo.MockSecurityEventRepository, *mockRepo.MockIdentityRepository) {
	t.Helper()

	eventRepo := &mockRepo.MockSecurityEventRepository{}
	identityRepo := &mockRepo.MockIdentityRepository{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewEventRecorder(eventRepo, identityRepo, logger), eventRepo, identityRepo
}

func TestEventRecorder_ResolvedTenantWritesDirectly(t *testing.T) {
	recorder, eventRepo, identityRepo := createTestRecorder(t)
	tenantID := uuid.New()

	eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(event *entity.SecurityEvent) bool {
		return event.TenantID == tenantID && event.Kind == entity.EventLogout
	})).Return(nil)

	recorder.Record(context.Background(), service.SecurityEventInput{
		TenantID: entity.ResolvedTenant(tenantID),
		Kind:     entity.EventLogout,
		Severity: entity.SeverityInfo,
	})

	eventRepo.AssertExpectations(t)
	identityRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestEventRecorder_UnresolvedTenantUsesIdentity(t *testing.T) {
	recorder, eventRepo, identityRepo := createTestRecorder(t)
	identityID := uuid.New()
	tenantID := uuid.New()

	identityRepo.On("FindByID", mock.Anything, identityID).
		Return(&entity.Identity{ID: identityID, TenantID: tenantID}, nil)
	eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(event *entity.SecurityEvent) bool {
		return event.TenantID == tenantID
	})).Return(nil)

	recorder.Record(context.Background(), service.SecurityEventInput{
		IdentityID: &identityID,
		Kind:       entity.EventSuspiciousLogin,
		Severity:   entity.SeverityWarning,
	})

	eventRepo.AssertExpectations(t)
	identityRepo.AssertExpectations(t)
}

func TestEventRecorder_UnresolvableTenantDropsEvent(t *testing.T) {
	recorder, eventRepo, identityRepo := createTestRecorder(t)
	identityID := uuid.New()

	identityRepo.On("FindByID", mock.Anything, identityID).
		Return(nil, repository.ErrIdentityNotFound)

	recorder.Record(context.Background(), service.SecurityEventInput{
		IdentityID: &identityID,
		Kind:       entity.EventLoginFailure,
		Severity:   entity.SeverityWarning,
	})

	eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
