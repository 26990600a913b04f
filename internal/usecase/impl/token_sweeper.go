package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/Shiki0138/sms-sub003/config"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"

	"go.uber.org/fx"
)

const defaultSweepInterval = 24 * time.Hour

// TokenSweeper periodically deletes refresh token rows that can never mint
// an access token again. Expired tokens are rejected by lookup even before
// the sweep runs; the sweep only reclaims storage.
type TokenSweeper struct {
	refreshTokenRepo repository.RefreshTokenRepository
	interval         time.Duration
	logger           *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// TokenSweeperParams holds dependencies for TokenSweeper, injected by Fx.
type TokenSweeperParams struct {
	fx.In
	fx.Lifecycle

	Config           *config.Config
	RefreshTokenRepo repository.RefreshTokenRepository
	Logger           *slog.Logger
}

// NewTokenSweeper builds the sweeper and ties its goroutine to the Fx
// application lifecycle.
func NewTokenSweeper(params TokenSweeperParams) *TokenSweeper {
	interval := defaultSweepInterval
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.SweepInterval > 0 {
		interval = params.Config.Auth.SweepInterval
	}

	sweeper := &TokenSweeper{
		refreshTokenRepo: params.RefreshTokenRepo,
		interval:         interval,
		logger:           params.Logger,
	}

	params.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			runCtx, cancel := context.WithCancel(context.Background())
			sweeper.cancel = cancel
			sweeper.done = make(chan struct{})

			go sweeper.run(runCtx)

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			if sweeper.cancel == nil {
				return nil
			}
			sweeper.cancel()

			select {
			case <-sweeper.done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})

	return sweeper
}

func (s *TokenSweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass. Failures are logged and retried on the next
// tick; a failed sweep never affects live traffic.
func (s *TokenSweeper) Sweep(ctx context.Context) {
	deleted, err := s.refreshTokenRepo.DeleteExpiredOrRevoked(ctx)
	if err != nil {
		s.logger.Error("Refresh token sweep failed", slog.Any("error", err))

		return
	}

	if deleted > 0 {
		s.logger.Info("Refresh token sweep completed", slog.Int64("deleted", deleted))
	}
}
