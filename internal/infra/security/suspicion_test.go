package security

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"
	mockRepo "github.com/Shiki0138/sms-sub003/internal/mocks/repository"
	mockSvc "github.com/Shiki0138/sms-sub003/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type suspicionFixtures struct {
	detector        service.SuspicionDetector
	loginRecordRepo *mockRepo.MockLoginRecordRepository
	recorder        *mockSvc.MockSecurityEventRecorder
}

func createTestSuspicionDetector(t *testing.T) suspicionFixtures {
	t.Helper()

	loginRecordRepo := &mockRepo.MockLoginRecordRepository{}
	recorder := &mockSvc.MockSecurityEventRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	detector := NewSuspicionDetector(nil, loginRecordRepo, recorder, logger)

	return suspicionFixtures{
		detector:        detector,
		loginRecordRepo: loginRecordRepo,
		recorder:        recorder,
	}
}

func knownLogin(ip, agent string) *entity.LoginRecord {
	return &entity.LoginRecord{
		ID:        uuid.New(),
		Success:   true,
		OriginIP:  ip,
		UserAgent: agent,
		CreatedAt: time.Now().Add(-time.Hour),
	}
}

func TestSuspicionDetector_EmptyWindowFlagsOrigin(t *testing.T) {
	fx := createTestSuspicionDetector(t)
	identityID := uuid.New()

	fx.loginRecordRepo.On("FindSuccessfulSince", mock.Anything, identityID, mock.AnythingOfType("time.Time")).
		Return([]*entity.LoginRecord{}, nil)
	fx.recorder.On("Record", mock.Anything, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventSuspiciousLogin && input.Severity == entity.SeverityWarning
	})).Return()

	result, err := fx.detector.Evaluate(context.Background(), identityID, entity.Origin{IP: "203.0.113.9", UserAgent: "agent-a"})

	// No baseline means every dimension is novel: a first login and a
	// return after the window drained both flag.
	require.NoError(t, err)
	assert.True(t, result.Suspicious)
	assert.True(t, result.NovelIP)
	assert.True(t, result.NovelUserAgent)
	fx.recorder.AssertExpectations(t)
}

func TestSuspicionDetector_KnownOriginIsNotSuspicious(t *testing.T) {
	fx := createTestSuspicionDetector(t)
	identityID := uuid.New()

	fx.loginRecordRepo.On("FindSuccessfulSince", mock.Anything, identityID, mock.AnythingOfType("time.Time")).
		Return([]*entity.LoginRecord{
			knownLogin("203.0.113.9", "agent-a"),
			knownLogin("198.51.100.7", "agent-b"),
		}, nil)

	result, err := fx.detector.Evaluate(context.Background(), identityID, entity.Origin{IP: "198.51.100.7", UserAgent: "agent-a"})

	require.NoError(t, err)
	assert.False(t, result.Suspicious)
	assert.False(t, result.NovelIP)
	assert.False(t, result.NovelUserAgent)
	fx.recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestSuspicionDetector_NovelIPFlags(t *testing.T) {
	fx := createTestSuspicionDetector(t)
	identityID := uuid.New()

	fx.loginRecordRepo.On("FindSuccessfulSince", mock.Anything, identityID, mock.AnythingOfType("time.Time")).
		Return([]*entity.LoginRecord{knownLogin("203.0.113.9", "agent-a")}, nil)
	fx.recorder.On("Record", mock.Anything, mock.MatchedBy(func(input service.SecurityEventInput) bool {
		return input.Kind == entity.EventSuspiciousLogin && input.Severity == entity.SeverityWarning
	})).Return()

	result, err := fx.detector.Evaluate(context.Background(), identityID, entity.Origin{IP: "192.0.2.1", UserAgent: "agent-a"})

	require.NoError(t, err)
	assert.True(t, result.Suspicious)
	assert.True(t, result.NovelIP)
	assert.False(t, result.NovelUserAgent)
	fx.recorder.AssertExpectations(t)
}

func TestSuspicionDetector_NovelUserAgentFlags(t *testing.T) {
	fx := createTestSuspicionDetector(t)
	identityID := uuid.New()

	fx.loginRecordRepo.On("FindSuccessfulSince", mock.Anything, identityID, mock.AnythingOfType("time.Time")).
		Return([]*entity.LoginRecord{knownLogin("203.0.113.9", "agent-a")}, nil)
	fx.recorder.On("Record", mock.Anything, mock.Anything).Return()

	result, err := fx.detector.Evaluate(context.Background(), identityID, entity.Origin{IP: "203.0.113.9", UserAgent: "agent-z"})

	require.NoError(t, err)
	assert.True(t, result.Suspicious)
	assert.False(t, result.NovelIP)
	assert.True(t, result.NovelUserAgent)
}
