package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	mockRepo "github.com/Shiki0138/sms-sub003/internal/mocks/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createTestSweeper(t *testing.T) (*TokenSweeper, *mockRepo.MockRefreshTokenRepository) {
	t.Helper()

	refreshTokenRepo := &mockRepo.MockRefreshTokenRepository{}
	sweeper := &TokenSweeper{
		refreshTokenRepo: refreshTokenRepo,
		interval:         defaultSweepInterval,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	return sweeper, refreshTokenRepo
}

func TestTokenSweeper_Sweep(t *testing.T) {
	sweeper, refreshTokenRepo := createTestSweeper(t)

	refreshTokenRepo.On("DeleteExpiredOrRevoked", mock.Anything).Return(int64(3), nil)

	sweeper.Sweep(context.Background())

	refreshTokenRepo.AssertExpectations(t)
}

func TestTokenSweeper_SweepFailureIsSwallowed(t *testing.T) {
	sweeper, refreshTokenRepo := createTestSweeper(t)

	refreshTokenRepo.On("DeleteExpiredOrRevoked", mock.Anything).Return(int64(0), assert.AnError)

	// A failed pass only logs; the next tick retries.
	sweeper.Sweep(context.Background())

	refreshTokenRepo.AssertExpectations(t)
}
